package groups

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edushare/backend/internal/middleware"
	"github.com/edushare/backend/internal/models"
	"github.com/edushare/backend/pkg/response"
)

// Slug must be lowercase alphanumeric and hyphens only, 2 to 64 chars.
var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,63}$`)

// Handler handles group HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a groups handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// CreateGroupRequest is the body for POST /groups.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
}

// JoinGroupRequest is the body for POST /groups/join.
type JoinGroupRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// Create handles POST /groups. Creates group and adds current user as owner.
func (h *Handler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	var body CreateGroupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "name and slug required")
		return
	}
	body.Slug = strings.ToLower(strings.TrimSpace(body.Slug))
	if !slugRegex.MatchString(body.Slug) {
		response.BadRequest(c, "slug must be 2-64 chars, lowercase letters, numbers, hyphens only")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if len(body.Name) < 1 || len(body.Name) > 255 {
		response.BadRequest(c, "name must be 1-255 characters")
		return
	}
	g := &models.Group{Name: body.Name, Slug: body.Slug, Description: strings.TrimSpace(body.Description)}
	if err := h.repo.Create(c.Request.Context(), g); err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			response.Conflict(c, "A group with this slug already exists")
			return
		}
		response.Internal(c, "failed to create group")
		return
	}
	if err := h.repo.AddMember(c.Request.Context(), g.ID, userID, models.GroupRoleOwner); err != nil {
		response.Internal(c, "failed to add you as owner")
		return
	}
	response.OK(c, g)
}

// Join handles POST /groups/join. Adds current user to group by slug.
func (h *Handler) Join(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	var body JoinGroupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "slug required")
		return
	}
	slug := strings.ToLower(strings.TrimSpace(body.Slug))
	if slug == "" {
		response.BadRequest(c, "slug required")
		return
	}
	g, err := h.repo.GetBySlug(c.Request.Context(), slug)
	if err != nil || g == nil {
		response.NotFound(c, "Group not found")
		return
	}
	if err := h.repo.AddMember(c.Request.Context(), g.ID, userID, models.GroupRoleMember); err != nil {
		response.Internal(c, "failed to join group")
		return
	}
	response.OK(c, g)
}

// List handles GET /groups. Returns the full group directory.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load groups")
		return
	}
	response.OK(c, list)
}

// ListMine handles GET /groups/mine. Returns groups the current user is a member of.
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListGroupsForUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load groups")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /groups/:id.
func (h *Handler) GetByID(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	g, err := h.repo.GetByID(c.Request.Context(), groupID)
	if err != nil || g == nil {
		response.NotFound(c, "Group not found")
		return
	}
	response.OK(c, g)
}

// ListMembers handles GET /groups/:id/members. Requires membership.
func (h *Handler) ListMembers(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	ok, err := h.repo.IsMember(c.Request.Context(), groupID, userID)
	if err != nil || !ok {
		response.Forbidden(c, "not a member of this group")
		return
	}
	members, err := h.repo.ListMembers(c.Request.Context(), groupID)
	if err != nil {
		response.Internal(c, "failed to load members")
		return
	}
	response.OK(c, members)
}
