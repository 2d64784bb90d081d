package emaillog

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edushare/backend/internal/models"
	"github.com/edushare/backend/pkg/queue"
	"github.com/edushare/backend/pkg/response"
)

const defaultListLimit = 50

// Handler exposes the email delivery log and resend endpoints (admin only).
// Resends go through the Redis job queue; the worker picks them up.
type Handler struct {
	repo   *Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates an email log handler.
func NewHandler(repo *Repository, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, queue: q, logger: logger}
}

// List handles GET /email-logs. Optional booking_id filter, otherwise the most
// recent entries.
func (h *Handler) List(c *gin.Context) {
	if raw := c.Query("booking_id"); raw != "" {
		bookingID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid booking_id")
			return
		}
		list, err := h.repo.ListByBooking(c.Request.Context(), bookingID)
		if err != nil {
			response.Internal(c, "failed to load email logs")
			return
		}
		response.OK(c, list)
		return
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	list, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Internal(c, "failed to load email logs")
		return
	}
	response.OK(c, list)
}

// Resend handles POST /email-logs/:id/resend. Creates a pending log entry and
// enqueues a job; the worker sends the email and finalizes the entry.
func (h *Handler) Resend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid email log id")
		return
	}
	orig, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "email log not found")
		return
	}
	if orig.BookingID == nil {
		response.BadRequest(c, "email log has no booking to resend for")
		return
	}

	pending := &models.EmailLog{
		BookingID:      orig.BookingID,
		EmailType:      orig.EmailType,
		RecipientEmail: orig.RecipientEmail,
		Subject:        orig.Subject,
		Status:         models.EmailLogStatusPending,
	}
	if err := h.repo.Create(c.Request.Context(), pending); err != nil {
		response.Internal(c, "failed to record resend")
		return
	}

	payload := queue.EmailPayload{
		EmailType:      orig.EmailType,
		BookingID:      *orig.BookingID,
		RecipientEmail: orig.RecipientEmail,
		EmailLogID:     pending.ID,
	}
	if err := h.queue.EnqueueEmail(c.Request.Context(), payload); err != nil {
		h.logger.Error("enqueue resend failed", zap.Error(err), zap.String("email_log_id", pending.ID.String()))
		response.Internal(c, "failed to enqueue resend")
		return
	}
	response.OK(c, pending)
}
