package models

import (
	"time"

	"github.com/google/uuid"
)

// Group membership roles.
const (
	GroupRoleOwner  = "owner"
	GroupRoleMember = "member"
)

// Group is a learning group students join to share resources.
type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
