package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// recaptchaVerifyURL is a var so tests can substitute an httptest server.
var recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks a bot-mitigation token against a third-party service.
type Verifier interface {
	Verify(ctx context.Context, token, ip string) (bool, error)
}

// RecaptchaVerifier verifies tokens with the reCAPTCHA siteverify endpoint
// and rejects assessments scoring below MinScore (0.0 bot, 1.0 human).
type RecaptchaVerifier struct {
	HTTP     *http.Client
	Secret   string
	MinScore float64
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token and caller IP to the verification service.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, ip string) (bool, error) {
	form := url.Values{
		"secret":   {v.Secret},
		"response": {token},
		"remoteip": {ip},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, recaptchaVerifyURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := v.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("verification request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verification service returned HTTP %d", resp.StatusCode)
	}
	var sv siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&sv); err != nil {
		return false, fmt.Errorf("parsing verification response: %w", err)
	}
	if !sv.Success {
		return false, fmt.Errorf("verification failed: %v", sv.ErrorCodes)
	}
	if sv.Score < v.MinScore {
		return false, fmt.Errorf("verification score %.2f below threshold %.2f", sv.Score, v.MinScore)
	}
	return true, nil
}
