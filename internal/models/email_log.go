package models

import (
	"time"

	"github.com/google/uuid"
)

// Email types.
const (
	EmailTypeBookingConfirmation = "booking_confirmation"
)

// EmailLogStatus for delivery.
const (
	EmailLogStatusPending = "pending"
	EmailLogStatusSent    = "sent"
	EmailLogStatusFailed  = "failed"
)

// EmailLog records confirmation email send attempts.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	BookingID      *uuid.UUID `json:"booking_id,omitempty"`
	EmailType      string     `json:"email_type"`
	RecipientEmail string     `json:"recipient_email"`
	Subject        string     `json:"subject,omitempty"`
	Status         string     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
