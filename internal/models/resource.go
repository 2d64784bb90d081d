package models

import (
	"time"

	"github.com/google/uuid"
)

// Resource types shown in the group resource list.
const (
	ResourceTypeLink  = "link"
	ResourceTypeFile  = "file"
	ResourceTypeVideo = "video"
	ResourceTypeImage = "image"
)

// Resource is a shared learning resource inside a group. Position is the
// display order maintained by drag-and-drop reordering.
type Resource struct {
	ID           uuid.UUID `json:"id"`
	GroupID      uuid.UUID `json:"group_id"`
	Title        string    `json:"title"`
	ResourceLink string    `json:"resource_link"`
	ResourceType string    `json:"resource_type"`
	StorageKey   *string   `json:"storage_key,omitempty"` // set for S3-backed files
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}
