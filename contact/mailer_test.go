package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendMailerSend(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"id": "msg-42"})
	}))
	defer srv.Close()
	prev := resendAPIURL
	resendAPIURL = srv.URL
	t.Cleanup(func() { resendAPIURL = prev })

	m := &ResendMailer{APIKey: "re_key", From: "noreply@example.com", To: "owner@example.com"}
	id, err := m.Send(context.Background(), "[Contact Form] Hello", "<p>hi</p>", "jane@example.com")
	require.NoError(t, err)

	assert.Equal(t, "msg-42", id)
	assert.Equal(t, "Bearer re_key", auth)
	assert.Equal(t, "Contact Form <noreply@example.com>", got.From)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "[Contact Form] Hello", got.Subject)
	assert.Equal(t, "jane@example.com", got.ReplyTo)
}

func TestResendMailerSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()
	prev := resendAPIURL
	resendAPIURL = srv.URL
	t.Cleanup(func() { resendAPIURL = prev })

	m := &ResendMailer{APIKey: "re_key", From: "a@b.c", To: "d@e.f"}
	_, err := m.Send(context.Background(), "s", "h", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
