package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// resendAPIURL is a var so tests can substitute an httptest server.
var resendAPIURL = "https://api.resend.com/emails"

// Mailer dispatches one notification email and returns the provider's
// message identifier.
type Mailer interface {
	Send(ctx context.Context, subject, html, replyTo string) (string, error)
}

// ResendMailer sends transactional email through the Resend HTTP API.
type ResendMailer struct {
	HTTP   *http.Client
	APIKey string
	From   string
	To     string
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send posts the formatted email with the submitter's address as reply-to.
func (m *ResendMailer) Send(ctx context.Context, subject, html, replyTo string) (string, error) {
	body, err := json.Marshal(resendRequest{
		From:    fmt.Sprintf("Contact Form <%s>", m.From),
		To:      []string{m.To},
		Subject: subject,
		HTML:    html,
		ReplyTo: replyTo,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := m.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("email request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("email API returned HTTP %d", resp.StatusCode)
	}
	var rr resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", fmt.Errorf("parsing email response: %w", err)
	}
	return rr.ID, nil
}
