package models

import (
	"time"

	"github.com/google/uuid"
)

// Mentor is a directory entry students can book sessions with.
type Mentor struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Expertise string    `json:"expertise"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
