package email

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleTransport logs messages instead of delivering them. Default in development.
type ConsoleTransport struct {
	cfg    Config
	logger *zap.Logger
}

// NewConsoleTransport creates a console transport.
func NewConsoleTransport(cfg Config, logger *zap.Logger) *ConsoleTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleTransport{cfg: cfg, logger: logger}
}

// Send logs the message and reports success.
func (t *ConsoleTransport) Send(_ context.Context, msg Message) error {
	t.logger.Info("email (console transport)",
		zap.String("from", t.cfg.FromAddress),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTMLBody)),
	)
	return nil
}
