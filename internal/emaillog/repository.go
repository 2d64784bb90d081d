package emaillog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edushare/backend/internal/models"
)

// Repository handles email log persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an email log entry.
func (r *Repository) Create(ctx context.Context, log *models.EmailLog) error {
	const q = `INSERT INTO email_logs (id, booking_id, email_type, recipient_email, subject, status, sent_at, error_message)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q,
		log.BookingID, log.EmailType, log.RecipientEmail, log.Subject, log.Status, log.SentAt, log.ErrorMessage).
		Scan(&log.ID, &log.CreatedAt)
}

// GetByID returns an email log entry by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailLog, error) {
	const q = `SELECT id, booking_id, email_type, recipient_email, subject, status, sent_at, error_message, created_at
		FROM email_logs WHERE id = $1`
	var log models.EmailLog
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&log.ID, &log.BookingID, &log.EmailType, &log.RecipientEmail, &log.Subject, &log.Status, &log.SentAt, &log.ErrorMessage, &log.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// UpdateStatus updates delivery status after a send attempt. sentAt is nil for
// failures; errMsg is empty for successes.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, sentAt *time.Time, errMsg string) error {
	const q = `UPDATE email_logs SET status = $2, sent_at = $3, error_message = $4 WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, status, sentAt, errMsg)
	return err
}

// ListByBooking returns all email log entries for a booking, newest first.
func (r *Repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.EmailLog, error) {
	const q = `SELECT id, booking_id, email_type, recipient_email, subject, status, sent_at, error_message, created_at
		FROM email_logs WHERE booking_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, bookingID)
}

// ListRecent returns the most recent email log entries across all bookings.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.EmailLog, error) {
	const q = `SELECT id, booking_id, email_type, recipient_email, subject, status, sent_at, error_message, created_at
		FROM email_logs ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, q, limit)
}

func (r *Repository) list(ctx context.Context, q string, args ...interface{}) ([]models.EmailLog, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EmailLog
	for rows.Next() {
		var log models.EmailLog
		if err := rows.Scan(&log.ID, &log.BookingID, &log.EmailType, &log.RecipientEmail, &log.Subject, &log.Status, &log.SentAt, &log.ErrorMessage, &log.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, log)
	}
	return list, rows.Err()
}
