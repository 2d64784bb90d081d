package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edushare/backend/pkg/email"
)

type fakeTransport struct {
	sent []email.Message
	err  error
}

func (f *fakeTransport) Send(_ context.Context, msg email.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestDispatchSendsConfirmation(t *testing.T) {
	ft := &fakeTransport{}
	d := NewDispatcher(ft, "https://meet.google.com/srx-ttvj-dkn", nil)

	session, err := Normalize("2025-06-10", "Tuesday 1 PM - 4 PM")
	require.NoError(t, err)
	session.MentorName = "Jane Doe"
	session.UserEmail = "student@example.com"

	require.NoError(t, d.Dispatch(context.Background(), session))
	require.Len(t, ft.sent, 1)

	msg := ft.sent[0]
	assert.Equal(t, "student@example.com", msg.To)
	assert.Equal(t, "Mentoring Session Confirmation with Jane Doe", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Greetings from EduShare!")
	assert.Contains(t, msg.HTMLBody, "Your mentoring session is confirmed!")
	assert.Contains(t, msg.HTMLBody, "https://meet.google.com/srx-ttvj-dkn")
	// The email shows what the user typed, not the normalized instants.
	assert.Contains(t, msg.HTMLBody, "2025-06-10")
	assert.Contains(t, msg.HTMLBody, "Tuesday 1 PM - 4 PM")
	assert.Contains(t, msg.HTMLBody, "Jane Doe")
}

func TestDispatchPropagatesTransportErrors(t *testing.T) {
	for _, sentinel := range []error{email.ErrAuth, email.ErrSend} {
		ft := &fakeTransport{err: sentinel}
		d := NewDispatcher(ft, "https://meet.example.com/abc", nil)

		session, err := Normalize("2025-06-10", "1 PM")
		require.NoError(t, err)
		session.MentorName = "Jane Doe"
		session.UserEmail = "student@example.com"

		assert.ErrorIs(t, d.Dispatch(context.Background(), session), sentinel)
	}
}
