package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridTransport delivers mail through the SendGrid v3 API.
type SendGridTransport struct {
	cfg    Config
	client *sendgrid.Client
}

// NewSendGridTransport creates a SendGrid transport.
func NewSendGridTransport(cfg Config) (*SendGridTransport, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, fmt.Errorf("sendgrid provider requires SENDGRID_API_KEY")
	}
	return &SendGridTransport{cfg: cfg, client: sendgrid.NewSendClient(cfg.SendGridAPIKey)}, nil
}

// Send delivers one message. A 401/403 maps to ErrAuth, other rejections to ErrSend.
func (t *SendGridTransport) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(t.cfg.FromName, t.cfg.FromAddress)
	to := mail.NewEmail("", msg.To)
	m := mail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)

	resp, err := t.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return fmt.Errorf("%w: sendgrid status %d", ErrAuth, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: sendgrid status %d: %s", ErrSend, resp.StatusCode, resp.Body)
	}
	return nil
}
