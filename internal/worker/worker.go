package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/edushare/backend/internal/booking"
	"github.com/edushare/backend/internal/emaillog"
	"github.com/edushare/backend/internal/models"
	"github.com/edushare/backend/pkg/queue"
)

// EmailProcessor consumes email jobs from the Redis queue, rebuilds the
// session from the stored booking and re-sends the confirmation email.
type EmailProcessor struct {
	queue      *queue.Queue
	bookings   *booking.Repository
	emailLogs  *emaillog.Repository
	dispatcher *booking.Dispatcher
	logger     *zap.Logger
}

// NewEmailProcessor creates an email job processor.
func NewEmailProcessor(q *queue.Queue, bookings *booking.Repository, emailLogs *emaillog.Repository, dispatcher *booking.Dispatcher, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{
		queue:      q,
		bookings:   bookings,
		emailLogs:  emailLogs,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run consumes jobs until ctx is cancelled. Failed jobs are retried with
// backoff, then moved to the DLQ.
func (p *EmailProcessor) Run(ctx context.Context) {
	p.logger.Info("email worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopped")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("email worker stopped")
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := p.process(ctx, job); err != nil {
			p.logger.Warn("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			if rErr := p.queue.Retry(ctx, job); rErr != nil {
				p.logger.Error("retry failed", zap.Error(rErr), zap.String("job_id", job.ID))
			}
		}
	}
}

func (p *EmailProcessor) process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeEmail {
		p.logger.Warn("unknown job type, dropping", zap.String("type", string(job.Type)), zap.String("job_id", job.ID))
		return nil
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		p.logger.Warn("invalid email payload, dropping", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}

	b, err := p.bookings.GetByID(ctx, payload.BookingID)
	if err != nil {
		return err
	}
	session := &booking.Session{
		MentorName:  b.MentorName,
		UserEmail:   payload.RecipientEmail,
		SessionDate: b.SessionDate,
		SessionTime: b.SessionTime,
		StartsAt:    b.StartsAt,
		EndsAt:      b.EndsAt,
	}

	sendErr := p.dispatcher.Dispatch(ctx, session)
	p.finalize(ctx, payload, sendErr)
	if sendErr != nil {
		return sendErr
	}
	p.logger.Info("resend delivered", zap.String("job_id", job.ID), zap.String("to", payload.RecipientEmail))
	return nil
}

// finalize updates the pending log entry for the job. Log-only on failure so
// bookkeeping does not trigger another retry cycle for a delivered email.
func (p *EmailProcessor) finalize(ctx context.Context, payload queue.EmailPayload, sendErr error) {
	status := models.EmailLogStatusSent
	var sentAt *time.Time
	errMsg := ""
	if sendErr != nil {
		status = models.EmailLogStatusFailed
		errMsg = sendErr.Error()
	} else {
		now := time.Now()
		sentAt = &now
	}
	if err := p.emailLogs.UpdateStatus(ctx, payload.EmailLogID, status, sentAt, errMsg); err != nil {
		p.logger.Warn("email log update failed", zap.Error(err), zap.String("email_log_id", payload.EmailLogID.String()))
	}
}
