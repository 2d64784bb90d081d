package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edushare/backend/internal/models"
)

// Repository handles booking persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a booking repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a booking.
func (r *Repository) Create(ctx context.Context, b *models.Booking) error {
	const q = `INSERT INTO bookings (id, mentor_name, user_email, session_date, session_time, starts_at, ends_at, created_by)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, b.MentorName, b.UserEmail, b.SessionDate, b.SessionTime, b.StartsAt, b.EndsAt, b.CreatedBy).
		Scan(&b.ID, &b.CreatedAt)
}

// GetByID returns a booking by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	const q = `SELECT id, mentor_name, user_email, session_date, session_time, starts_at, ends_at, created_by, created_at
		FROM bookings WHERE id = $1`
	var b models.Booking
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&b.ID, &b.MentorName, &b.UserEmail, &b.SessionDate, &b.SessionTime, &b.StartsAt, &b.EndsAt, &b.CreatedBy, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByEmail returns bookings for an attendee email, upcoming first.
func (r *Repository) ListByEmail(ctx context.Context, userEmail string) ([]models.Booking, error) {
	const q = `SELECT id, mentor_name, user_email, session_date, session_time, starts_at, ends_at, created_by, created_at
		FROM bookings WHERE user_email = $1 ORDER BY starts_at DESC`
	rows, err := r.pool.Query(ctx, q, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.MentorName, &b.UserEmail, &b.SessionDate, &b.SessionTime, &b.StartsAt, &b.EndsAt, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
