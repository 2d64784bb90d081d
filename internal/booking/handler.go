package booking

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edushare/backend/internal/middleware"
	"github.com/edushare/backend/internal/models"
	"github.com/edushare/backend/pkg/response"
)

// Store is the booking persistence the handler needs. Implemented by Repository.
type Store interface {
	Create(ctx context.Context, b *models.Booking) error
	ListByEmail(ctx context.Context, userEmail string) ([]models.Booking, error)
}

// EmailLogStore records confirmation send attempts. Implemented by the
// emaillog repository.
type EmailLogStore interface {
	Create(ctx context.Context, log *models.EmailLog) error
}

// Handler sequences validation, normalization, persistence and dispatch for
// session bookings. The /book-session contract matches the legacy EduShare
// frontend byte for byte, so it bypasses the standard response envelope.
type Handler struct {
	store      Store
	emailLogs  EmailLogStore
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewHandler creates a booking handler.
func NewHandler(store Store, emailLogs EmailLogStore, dispatcher *Dispatcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, emailLogs: emailLogs, dispatcher: dispatcher, logger: logger}
}

// BookSessionRequest is the body for POST /book-session. Field names follow the
// legacy frontend payload.
type BookSessionRequest struct {
	MentorName  string `json:"mentorName"`
	UserEmail   string `json:"userEmail"`
	SessionDate string `json:"sessionDate"`
	SessionTime string `json:"sessionTime"`
}

// BookSession handles POST /book-session.
//
// Ordering matters: missing-field validation runs before time normalization so
// a format error never masks a missing-field error, and normalization runs
// before any side effect.
func (h *Handler) BookSession(c *gin.Context) {
	var req BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}
	if req.SessionDate == "" || req.SessionTime == "" || req.UserEmail == "" || req.MentorName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	session, err := Normalize(req.SessionDate, req.SessionTime)
	if err != nil {
		switch err {
		case ErrInvalidTimeFormat:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid time format"})
		case ErrInvalidDate:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid time format"})
		}
		return
	}
	session.MentorName = req.MentorName
	session.UserEmail = req.UserEmail

	b := &models.Booking{
		MentorName:  session.MentorName,
		UserEmail:   session.UserEmail,
		SessionDate: session.SessionDate,
		SessionTime: session.SessionTime,
		StartsAt:    session.StartsAt,
		EndsAt:      session.EndsAt,
		CreatedBy:   currentUserID(c),
	}
	if err := h.store.Create(c.Request.Context(), b); err != nil {
		h.logger.Error("create booking failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to book session", "error": err.Error()})
		return
	}

	if err := h.dispatcher.Dispatch(c.Request.Context(), session); err != nil {
		h.recordEmail(c.Request.Context(), b, session, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to book session", "error": err.Error()})
		return
	}
	h.recordEmail(c.Request.Context(), b, session, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Session booked successfully"})
}

// ListMine handles GET /bookings (JWT required). Returns the caller's bookings.
func (h *Handler) ListMine(c *gin.Context) {
	emailVal, ok := c.Get(middleware.ContextUserEmail)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	userEmail, _ := emailVal.(string)
	list, err := h.store.ListByEmail(c.Request.Context(), userEmail)
	if err != nil {
		response.Internal(c, "failed to load bookings")
		return
	}
	response.OK(c, list)
}

// recordEmail writes an email log entry; log-only on failure so bookkeeping
// never changes the booking outcome.
func (h *Handler) recordEmail(ctx context.Context, b *models.Booking, session *Session, sendErr error) {
	now := time.Now()
	log := &models.EmailLog{
		BookingID:      &b.ID,
		EmailType:      models.EmailTypeBookingConfirmation,
		RecipientEmail: session.UserEmail,
		Subject:        h.dispatcher.Subject(session),
	}
	if sendErr != nil {
		log.Status = models.EmailLogStatusFailed
		log.ErrorMessage = sendErr.Error()
	} else {
		log.Status = models.EmailLogStatusSent
		log.SentAt = &now
	}
	if err := h.emailLogs.Create(ctx, log); err != nil {
		h.logger.Warn("record email log failed", zap.Error(err), zap.String("booking_id", b.ID.String()))
	}
}

func currentUserID(c *gin.Context) *uuid.UUID {
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return &id
		}
	}
	return nil
}
