package email

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrAuth indicates credential or token acquisition failure before the message
	// could be handed to the provider.
	ErrAuth = errors.New("email: authentication failed")
	// ErrSend indicates the provider rejected or failed to deliver the message.
	ErrSend = errors.New("email: send failed")
)

// Message is an outbound email. The sender identity comes from transport config.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Transport abstracts an email provider (SMTP, SendGrid, console).
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Config selects and configures a transport. Provider is one of "smtp",
// "sendgrid", "console".
type Config struct {
	Provider    string
	FromAddress string
	FromName    string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	AuthMode string // "oauth2" or "password"

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string

	SendGridAPIKey string
}

// NewTransport constructs the transport named by cfg.Provider.
func NewTransport(cfg Config, logger *zap.Logger) (Transport, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPTransport(cfg)
	case "sendgrid":
		return NewSendGridTransport(cfg)
	case "console", "":
		return NewConsoleTransport(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %q", cfg.Provider)
	}
}
