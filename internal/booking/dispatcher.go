package booking

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/edushare/backend/pkg/email"
)

// confirmationTmpl is the confirmation email body. It shows the date and time
// strings the user typed, not the normalized instants.
var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<h1>Greetings from EduShare!</h1>
<h1>Your mentoring session is confirmed!</h1>
<strong>Your Meet Link: {{.MeetLink}}</strong>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Time:</strong> {{.Time}}</p>
<p><strong>Mentor:</strong> {{.Mentor}}</p>
`))

// Dispatcher composes and sends booking confirmation emails through an
// injected mail transport. One send per call, no retries; transport failures
// surface to the caller.
type Dispatcher struct {
	transport email.Transport
	meetLink  string
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher. meetLink is embedded in every
// confirmation body.
func NewDispatcher(transport email.Transport, meetLink string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{transport: transport, meetLink: meetLink, logger: logger}
}

// Subject returns the confirmation subject line for a session.
func (d *Dispatcher) Subject(s *Session) string {
	return fmt.Sprintf("Mentoring Session Confirmation with %s", s.MentorName)
}

// Dispatch sends exactly one confirmation email for the session.
func (d *Dispatcher) Dispatch(ctx context.Context, s *Session) error {
	var body bytes.Buffer
	err := confirmationTmpl.Execute(&body, map[string]string{
		"MeetLink": d.meetLink,
		"Date":     s.SessionDate,
		"Time":     s.SessionTime,
		"Mentor":   s.MentorName,
	})
	if err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}

	msg := email.Message{
		To:       s.UserEmail,
		Subject:  d.Subject(s),
		HTMLBody: body.String(),
	}
	if err := d.transport.Send(ctx, msg); err != nil {
		d.logger.Error("confirmation send failed",
			zap.String("to", s.UserEmail),
			zap.String("mentor", s.MentorName),
			zap.Error(err),
		)
		return err
	}
	d.logger.Info("confirmation sent",
		zap.String("to", s.UserEmail),
		zap.String("mentor", s.MentorName),
		zap.Time("starts_at", s.StartsAt),
	)
	return nil
}
