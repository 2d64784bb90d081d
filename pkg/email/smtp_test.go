package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXOAUTH2Start(t *testing.T) {
	a := xoauth2Auth{user: "noreply@edushare.app", token: "ya29.token"}
	proto, resp, err := a.Start(nil)
	require.NoError(t, err)
	assert.Equal(t, "XOAUTH2", proto)
	assert.Equal(t, "user=noreply@edushare.app\x01auth=Bearer ya29.token\x01\x01", string(resp))
}

func TestBuildMIME(t *testing.T) {
	cfg := Config{FromAddress: "noreply@edushare.app", FromName: "EduShare"}
	msg := Message{
		To:       "student@example.com",
		Subject:  "Mentoring Session Confirmation with Jane Doe",
		HTMLBody: "<h1>Greetings from EduShare!</h1>",
	}
	raw := string(buildMIME(cfg, msg))

	assert.Contains(t, raw, "From: EduShare <noreply@edushare.app>\r\n")
	assert.Contains(t, raw, "To: student@example.com\r\n")
	assert.Contains(t, raw, "Subject: Mentoring Session Confirmation with Jane Doe\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(raw, "<h1>Greetings from EduShare!</h1>\r\n"))
}

func TestBuildMIMEPlainTextFallback(t *testing.T) {
	cfg := Config{FromAddress: "noreply@edushare.app"}
	msg := Message{To: "a@b.c", Subject: "s", TextBody: "hello"}
	raw := string(buildMIME(cfg, msg))

	assert.Contains(t, raw, "From: noreply@edushare.app\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.Contains(t, raw, "\r\n\r\nhello\r\n")
}

func TestNewSMTPTransportValidation(t *testing.T) {
	_, err := NewSMTPTransport(Config{AuthMode: "oauth2"})
	assert.Error(t, err)

	_, err = NewSMTPTransport(Config{AuthMode: "password"})
	assert.Error(t, err)

	_, err = NewSMTPTransport(Config{AuthMode: "bogus"})
	assert.Error(t, err)

	tr, err := NewSMTPTransport(Config{
		AuthMode:           "oauth2",
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
		GoogleRefreshToken: "refresh",
	})
	require.NoError(t, err)
	assert.NotNil(t, tr.tokens)

	tr, err = NewSMTPTransport(Config{AuthMode: "password", SMTPUser: "u", SMTPPass: "p"})
	require.NoError(t, err)
	assert.Nil(t, tr.tokens)
}

func TestNewTransportSelectsProvider(t *testing.T) {
	tr, err := NewTransport(Config{Provider: "console"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleTransport{}, tr)

	_, err = NewTransport(Config{Provider: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}
