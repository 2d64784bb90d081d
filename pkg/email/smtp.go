package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// SMTPTransport delivers mail over SMTP. Depending on AuthMode it authenticates
// with a Gmail XOAUTH2 bearer token (refreshed through the configured Google
// OAuth2 client) or with a plain username/password.
type SMTPTransport struct {
	cfg    Config
	tokens oauth2.TokenSource // nil in password mode
}

// NewSMTPTransport creates an SMTP transport. In oauth2 mode the token source is
// built once and reused; tokens are refreshed lazily on each send.
func NewSMTPTransport(cfg Config) (*SMTPTransport, error) {
	t := &SMTPTransport{cfg: cfg}
	switch cfg.AuthMode {
	case "oauth2":
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRefreshToken == "" {
			return nil, fmt.Errorf("smtp oauth2 mode requires google client id, secret and refresh token")
		}
		oc := &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
		}
		t.tokens = oc.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken})
	case "password":
		if cfg.SMTPUser == "" || cfg.SMTPPass == "" {
			return nil, fmt.Errorf("smtp password mode requires SMTP_USER and SMTP_PASS")
		}
	default:
		return nil, fmt.Errorf("unknown smtp auth mode: %q", cfg.AuthMode)
	}
	return t, nil
}

// Send delivers one message. Token acquisition failures surface as ErrAuth,
// everything after the handshake as ErrSend.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	var auth smtp.Auth
	user := t.cfg.SMTPUser
	if user == "" {
		user = t.cfg.FromAddress
	}

	if t.tokens != nil {
		tok, err := t.tokens.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
		auth = xoauth2Auth{user: t.cfg.FromAddress, token: tok.AccessToken}
	} else {
		auth = smtp.PlainAuth("", user, t.cfg.SMTPPass, t.cfg.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%d", t.cfg.SMTPHost, t.cfg.SMTPPort)
	raw := buildMIME(t.cfg, msg)
	if err := smtp.SendMail(addr, auth, t.cfg.FromAddress, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}

// xoauth2Auth implements the SASL XOAUTH2 mechanism used by Gmail.
type xoauth2Auth struct {
	user  string
	token string
}

func (a xoauth2Auth) Start(_ *smtp.ServerInfo) (string, []byte, error) {
	resp := "user=" + a.user + "\x01auth=Bearer " + a.token + "\x01\x01"
	return "XOAUTH2", []byte(resp), nil
}

func (a xoauth2Auth) Next(_ []byte, more bool) ([]byte, error) {
	if more {
		// Server sent an error challenge; reply empty so it returns the final error.
		return []byte{}, nil
	}
	return nil, nil
}

func buildMIME(cfg Config, msg Message) []byte {
	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}
	body := msg.HTMLBody
	contentType := "text/html; charset=UTF-8"
	if body == "" {
		body = msg.TextBody
		contentType = "text/plain; charset=UTF-8"
	}
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: " + contentType + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
