package mentors

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edushare/backend/internal/models"
)

// Repository handles mentor persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a mentors repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a mentor.
func (r *Repository) Create(ctx context.Context, m *models.Mentor) error {
	const q = `INSERT INTO mentors (id, full_name, email, expertise, bio, avatar_url)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, m.FullName, m.Email, m.Expertise, m.Bio, m.AvatarURL).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID returns a mentor by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Mentor, error) {
	const q = `SELECT id, full_name, email, expertise, bio, avatar_url, created_at, updated_at
		FROM mentors WHERE id = $1`
	var m models.Mentor
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&m.ID, &m.FullName, &m.Email, &m.Expertise, &m.Bio, &m.AvatarURL, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all mentors ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Mentor, error) {
	const q = `SELECT id, full_name, email, expertise, bio, avatar_url, created_at, updated_at
		FROM mentors ORDER BY full_name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Mentor
	for rows.Next() {
		var m models.Mentor
		if err := rows.Scan(&m.ID, &m.FullName, &m.Email, &m.Expertise, &m.Bio, &m.AvatarURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Update updates mentor profile fields.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fullName, expertise, bio, avatarURL string) error {
	const q = `UPDATE mentors SET full_name = $1, expertise = $2, bio = $3, avatar_url = $4, updated_at = NOW()
		WHERE id = $5`
	_, err := r.pool.Exec(ctx, q, fullName, expertise, bio, avatarURL, id)
	return err
}

// Delete removes a mentor by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM mentors WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
