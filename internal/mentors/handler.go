package mentors

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/edushare/backend/internal/models"
	"github.com/edushare/backend/pkg/response"
)

const (
	cacheKeyAll = "mentors:all"
	cacheTTL    = 5 * time.Minute
)

// Handler handles mentor directory HTTP endpoints. The directory list is cached
// in Redis; every write deletes the cache so readers never see stale entries.
type Handler struct {
	repo   *Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewHandler creates a mentors handler.
func NewHandler(repo *Repository, rdb *redis.Client, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, rdb: rdb, logger: logger}
}

// List handles GET /mentors.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if cached, err := h.rdb.Get(ctx, cacheKeyAll).Result(); err == nil {
		var list []models.Mentor
		if err := json.Unmarshal([]byte(cached), &list); err == nil {
			response.OK(c, list)
			return
		}
	}

	list, err := h.repo.List(ctx)
	if err != nil {
		response.Internal(c, "failed to load mentors")
		return
	}
	if raw, err := json.Marshal(list); err == nil {
		if err := h.rdb.Set(ctx, cacheKeyAll, raw, cacheTTL).Err(); err != nil {
			h.logger.Warn("mentor cache set failed", zap.Error(err))
		}
	}
	response.OK(c, list)
}

// GetByID handles GET /mentors/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid mentor id")
		return
	}
	m, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil || m == nil {
		response.NotFound(c, "mentor not found")
		return
	}
	response.OK(c, m)
}

// CreateMentorRequest is the body for POST /mentors (admin only).
type CreateMentorRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Expertise string `json:"expertise"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// Create handles POST /mentors (admin only).
func (h *Handler) Create(c *gin.Context) {
	var body CreateMentorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m := &models.Mentor{
		FullName:  strings.TrimSpace(body.FullName),
		Email:     strings.TrimSpace(body.Email),
		Expertise: body.Expertise,
		Bio:       body.Bio,
		AvatarURL: body.AvatarURL,
	}
	if err := h.repo.Create(c.Request.Context(), m); err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			response.Conflict(c, "a mentor with this email already exists")
			return
		}
		response.Internal(c, "failed to create mentor")
		return
	}
	h.invalidateCache(c.Request.Context())
	response.Created(c, m)
}

// UpdateMentorRequest is the body for PATCH /mentors/:id (admin only).
type UpdateMentorRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Expertise string `json:"expertise"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// Update handles PATCH /mentors/:id (admin only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid mentor id")
		return
	}
	var body UpdateMentorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "full_name required")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "mentor not found")
		return
	}
	if err := h.repo.Update(c.Request.Context(), id, body.FullName, body.Expertise, body.Bio, body.AvatarURL); err != nil {
		response.Internal(c, "failed to update mentor")
		return
	}
	h.invalidateCache(c.Request.Context())
	m, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load mentor")
		return
	}
	response.OK(c, m)
}

// Delete handles DELETE /mentors/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid mentor id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete mentor")
		return
	}
	h.invalidateCache(c.Request.Context())
	response.NoContent(c)
}

func (h *Handler) invalidateCache(ctx context.Context) {
	if err := h.rdb.Del(ctx, cacheKeyAll).Err(); err != nil {
		h.logger.Warn("mentor cache invalidation failed", zap.Error(err))
	}
}
