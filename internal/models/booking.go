package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a confirmed mentoring session. SessionDate and SessionTime keep the
// caller's original strings; StartsAt/EndsAt hold the normalized instants.
type Booking struct {
	ID          uuid.UUID  `json:"id"`
	MentorName  string     `json:"mentor_name"`
	UserEmail   string     `json:"user_email"`
	SessionDate string     `json:"session_date"`
	SessionTime string     `json:"session_time"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
