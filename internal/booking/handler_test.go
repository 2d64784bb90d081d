package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edushare/backend/internal/models"
)

type fakeStore struct {
	created   []*models.Booking
	createErr error
}

func (f *fakeStore) Create(_ context.Context, b *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, b)
	return nil
}

func (f *fakeStore) ListByEmail(_ context.Context, _ string) ([]models.Booking, error) {
	return nil, nil
}

type fakeEmailLogStore struct {
	logs []*models.EmailLog
}

func (f *fakeEmailLogStore) Create(_ context.Context, log *models.EmailLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func newTestRouter(store *fakeStore, logs *fakeEmailLogStore, transport *fakeTransport) *gin.Engine {
	gin.SetMode(gin.TestMode)
	d := NewDispatcher(transport, "https://meet.google.com/srx-ttvj-dkn", nil)
	h := NewHandler(store, logs, d, nil)
	r := gin.New()
	r.POST("/book-session", h.BookSession)
	return r
}

func postBooking(t *testing.T, r *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/book-session", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody() map[string]string {
	return map[string]string{
		"mentorName":  "Jane Doe",
		"userEmail":   "student@example.com",
		"sessionDate": "2025-06-10",
		"sessionTime": "1 PM",
	}
}

func TestBookSessionSuccess(t *testing.T) {
	store := &fakeStore{}
	logs := &fakeEmailLogStore{}
	transport := &fakeTransport{}
	r := newTestRouter(store, logs, transport)

	w := postBooking(t, r, validBody())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Session booked successfully"}`, w.Body.String())

	require.Len(t, store.created, 1)
	b := store.created[0]
	assert.Equal(t, "Jane Doe", b.MentorName)
	assert.Equal(t, "2025-06-10", b.SessionDate)
	assert.Equal(t, "1 PM", b.SessionTime)
	assert.Equal(t, "2025-06-10T13:00:00Z", b.StartsAt.UTC().Format("2006-01-02T15:04:05Z"))

	require.Len(t, transport.sent, 1)
	require.Len(t, logs.logs, 1)
	assert.Equal(t, models.EmailLogStatusSent, logs.logs[0].Status)
	assert.NotNil(t, logs.logs[0].SentAt)
}

func TestBookSessionMissingFields(t *testing.T) {
	for _, field := range []string{"mentorName", "userEmail", "sessionDate", "sessionTime"} {
		store := &fakeStore{}
		logs := &fakeEmailLogStore{}
		transport := &fakeTransport{}
		r := newTestRouter(store, logs, transport)

		body := validBody()
		body[field] = ""
		w := postBooking(t, r, body)

		assert.Equal(t, http.StatusBadRequest, w.Code, "missing %s", field)
		assert.JSONEq(t, `{"message":"Missing required fields"}`, w.Body.String())
		// No booking, no email, no log when validation fails.
		assert.Empty(t, store.created)
		assert.Empty(t, transport.sent)
		assert.Empty(t, logs.logs)
	}
}

func TestBookSessionMalformedJSON(t *testing.T) {
	r := newTestRouter(&fakeStore{}, &fakeEmailLogStore{}, &fakeTransport{})
	req := httptest.NewRequest(http.MethodPost, "/book-session", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing required fields"}`, w.Body.String())
}

func TestBookSessionInvalidTimeFormat(t *testing.T) {
	store := &fakeStore{}
	transport := &fakeTransport{}
	r := newTestRouter(store, &fakeEmailLogStore{}, transport)

	body := validBody()
	body["sessionTime"] = "no time here"
	w := postBooking(t, r, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid time format"}`, w.Body.String())
	assert.Empty(t, store.created)
	assert.Empty(t, transport.sent)
}

func TestBookSessionInvalidDate(t *testing.T) {
	store := &fakeStore{}
	transport := &fakeTransport{}
	r := newTestRouter(store, &fakeEmailLogStore{}, transport)

	body := validBody()
	body["sessionDate"] = "not-a-date"
	w := postBooking(t, r, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid date format"}`, w.Body.String())
	assert.Empty(t, store.created)
	assert.Empty(t, transport.sent)
}

func TestBookSessionDispatchFailure(t *testing.T) {
	store := &fakeStore{}
	logs := &fakeEmailLogStore{}
	transport := &fakeTransport{err: errors.New("connection refused")}
	r := newTestRouter(store, logs, transport)

	w := postBooking(t, r, validBody())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to book session", resp["message"])
	assert.NotEmpty(t, resp["error"])

	// The booking is persisted; only the email failed, and that is logged.
	require.Len(t, store.created, 1)
	require.Len(t, logs.logs, 1)
	assert.Equal(t, models.EmailLogStatusFailed, logs.logs[0].Status)
	assert.NotEmpty(t, logs.logs[0].ErrorMessage)
}

func TestBookSessionStoreFailure(t *testing.T) {
	store := &fakeStore{createErr: errors.New("db down")}
	transport := &fakeTransport{}
	r := newTestRouter(store, &fakeEmailLogStore{}, transport)

	w := postBooking(t, r, validBody())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// No email goes out when the booking itself failed to persist.
	assert.Empty(t, transport.sent)
}
