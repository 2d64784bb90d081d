package resources

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edushare/backend/internal/groups"
	"github.com/edushare/backend/internal/middleware"
	"github.com/edushare/backend/internal/models"
	"github.com/edushare/backend/pkg/response"
	"github.com/edushare/backend/pkg/storage"
)

// Handler handles group resource HTTP endpoints.
type Handler struct {
	repo      *Repository
	groupRepo *groups.Repository
	s3        *storage.S3 // nil when S3 is not configured
	logger    *zap.Logger
}

// NewHandler creates a resources handler.
func NewHandler(repo *Repository, groupRepo *groups.Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, groupRepo: groupRepo, s3: s3, logger: logger}
}

// requireMembership parses :id and checks the current user belongs to the group.
// Returns uuid.Nil after writing the error response when the check fails.
func (h *Handler) requireMembership(c *gin.Context) uuid.UUID {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return uuid.Nil
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	ok, err := h.groupRepo.IsMember(c.Request.Context(), groupID, userID)
	if err != nil || !ok {
		response.Forbidden(c, "not a member of this group")
		return uuid.Nil
	}
	return groupID
}

// List handles GET /groups/:id/resources.
func (h *Handler) List(c *gin.Context) {
	groupID := h.requireMembership(c)
	if groupID == uuid.Nil {
		return
	}
	list, err := h.repo.ListByGroup(c.Request.Context(), groupID)
	if err != nil {
		response.Internal(c, "failed to load resources")
		return
	}
	response.OK(c, list)
}

// AddResourceRequest is the body for POST /groups/:id/resources.
type AddResourceRequest struct {
	Title        string `json:"title" binding:"required"`
	ResourceLink string `json:"resource_link" binding:"required"`
	ResourceType string `json:"resource_type"`
	StorageKey   string `json:"storage_key"` // set when the link points at an uploaded object
}

// Add handles POST /groups/:id/resources.
func (h *Handler) Add(c *gin.Context) {
	groupID := h.requireMembership(c)
	if groupID == uuid.Nil {
		return
	}
	var body AddResourceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "title and resource_link required")
		return
	}
	resType := body.ResourceType
	switch resType {
	case "":
		resType = models.ResourceTypeLink
	case models.ResourceTypeLink, models.ResourceTypeFile, models.ResourceTypeVideo, models.ResourceTypeImage:
	default:
		response.BadRequest(c, "invalid resource_type")
		return
	}
	res := &models.Resource{
		GroupID:      groupID,
		Title:        strings.TrimSpace(body.Title),
		ResourceLink: strings.TrimSpace(body.ResourceLink),
		ResourceType: resType,
	}
	if body.StorageKey != "" {
		res.StorageKey = &body.StorageKey
	}
	if err := h.repo.Create(c.Request.Context(), res); err != nil {
		h.logger.Error("create resource failed", zap.Error(err), zap.String("group_id", groupID.String()))
		response.Internal(c, "failed to add resource")
		return
	}
	response.Created(c, res)
}

// Delete handles DELETE /groups/:id/resources/:resourceId.
func (h *Handler) Delete(c *gin.Context) {
	groupID := h.requireMembership(c)
	if groupID == uuid.Nil {
		return
	}
	resourceID, err := uuid.Parse(c.Param("resourceId"))
	if err != nil {
		response.BadRequest(c, "invalid resource id")
		return
	}
	res, err := h.repo.GetByID(c.Request.Context(), resourceID)
	if err != nil || res == nil || res.GroupID != groupID {
		response.NotFound(c, "resource not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), resourceID); err != nil {
		response.Internal(c, "failed to delete resource")
		return
	}
	if res.StorageKey != nil && h.s3 != nil {
		if err := h.s3.DeleteObject(c.Request.Context(), h.s3.ResourcesBucket(), *res.StorageKey); err != nil {
			h.logger.Warn("delete resource object failed", zap.Error(err), zap.String("key", *res.StorageKey))
		}
	}
	response.NoContent(c)
}

// ReorderRequest is the body for PUT /groups/:id/resources/order. The resource
// IDs in their new display order, as produced by the drag-and-drop UI.
type ReorderRequest struct {
	ResourceIDs []uuid.UUID `json:"resource_ids" binding:"required"`
}

// Reorder handles PUT /groups/:id/resources/order.
func (h *Handler) Reorder(c *gin.Context) {
	groupID := h.requireMembership(c)
	if groupID == uuid.Nil {
		return
	}
	var body ReorderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "resource_ids required")
		return
	}
	if len(body.ResourceIDs) == 0 {
		response.BadRequest(c, "resource_ids required")
		return
	}
	count, err := h.repo.CountByGroup(c.Request.Context(), groupID)
	if err != nil {
		response.Internal(c, "failed to reorder resources")
		return
	}
	if count != len(body.ResourceIDs) {
		response.BadRequest(c, "resource_ids must contain every resource in the group")
		return
	}
	if err := h.repo.Reorder(c.Request.Context(), groupID, body.ResourceIDs); err != nil {
		h.logger.Error("reorder failed", zap.Error(err), zap.String("group_id", groupID.String()))
		response.BadRequest(c, "failed to reorder resources")
		return
	}
	list, err := h.repo.ListByGroup(c.Request.Context(), groupID)
	if err != nil {
		response.Internal(c, "failed to load resources")
		return
	}
	response.OK(c, list)
}

// UploadURLRequest is the body for POST /groups/:id/resources/generate-upload-url.
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
}

// GenerateUploadURL handles POST /groups/:id/resources/generate-upload-url.
// Returns a pre-signed PUT URL so the client uploads the file directly to S3,
// then registers it with POST /groups/:id/resources using the returned key.
func (h *Handler) GenerateUploadURL(c *gin.Context) {
	groupID := h.requireMembership(c)
	if groupID == uuid.Nil {
		return
	}
	if h.s3 == nil {
		response.Internal(c, "file storage not configured")
		return
	}
	var body UploadURLRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "filename required")
		return
	}
	if !storage.ValidateResourceFileType(body.ContentType, body.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}
	contentType := body.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(body.Filename)
	}
	key := storage.ResourceKey(groupID.String(), body.Filename)
	url, err := h.s3.GeneratePresignedUploadURL(c.Request.Context(), h.s3.ResourcesBucket(), key, contentType, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign upload failed", zap.Error(err))
		response.Internal(c, "failed to generate upload URL")
		return
	}
	response.OK(c, gin.H{
		"upload_url":   url,
		"storage_key":  key,
		"content_type": contentType,
	})
}

// GenerateDownloadURL handles GET /groups/:id/resources/:resourceId/download-url.
func (h *Handler) GenerateDownloadURL(c *gin.Context) {
	groupID := h.requireMembership(c)
	if groupID == uuid.Nil {
		return
	}
	if h.s3 == nil {
		response.Internal(c, "file storage not configured")
		return
	}
	resourceID, err := uuid.Parse(c.Param("resourceId"))
	if err != nil {
		response.BadRequest(c, "invalid resource id")
		return
	}
	res, err := h.repo.GetByID(c.Request.Context(), resourceID)
	if err != nil || res == nil || res.GroupID != groupID {
		response.NotFound(c, "resource not found")
		return
	}
	if res.StorageKey == nil {
		response.BadRequest(c, "resource is not a stored file")
		return
	}
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), h.s3.ResourcesBucket(), *res.StorageKey, h.s3.PresignExpire())
	if err != nil {
		response.Internal(c, "failed to generate download URL")
		return
	}
	response.OK(c, gin.H{"download_url": url})
}
