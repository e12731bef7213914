package contact

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	siteerr "github.com/escuadron-404/sitio/internal/errors"
)

// DevBypassToken is the sentinel accepted in development mode without
// contacting the verification service.
const DevBypassToken = "development_bypass_token"

const turnstileEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// TokenVerifier checks a bot-verification token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

// TurnstileVerifier verifies tokens against the Cloudflare Turnstile
// siteverify endpoint.
type TurnstileVerifier struct {
	secret     string
	endpoint   string
	dev        bool
	httpClient *http.Client
}

// NewTurnstileVerifier creates a verifier. In dev mode the bypass sentinel
// is accepted without a network round trip.
func NewTurnstileVerifier(secret string, dev bool) *TurnstileVerifier {
	return &TurnstileVerifier{
		secret:     secret,
		endpoint:   turnstileEndpoint,
		dev:        dev,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type turnstileResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify implements TokenVerifier.
func (v *TurnstileVerifier) Verify(ctx context.Context, token string) error {
	if v.dev && token == DevBypassToken {
		slog.Info("turnstile verification bypassed in development mode")
		return nil
	}

	if v.secret == "" {
		// Missing secret is fatal to the feature only; the user sees a
		// generic failure while the detail stays in the server log.
		return siteerr.ConfigRequired("contact.turnstile_secret")
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return siteerr.Wrap(err, siteerr.CategoryInternal, siteerr.SeverityError, "Failed to verify CAPTCHA.")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return siteerr.Wrap(err, siteerr.CategoryInternal, siteerr.SeverityError, "Failed to verify CAPTCHA.")
	}
	defer resp.Body.Close()

	var parsed turnstileResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return siteerr.Wrap(err, siteerr.CategoryInternal, siteerr.SeverityError, "Failed to verify CAPTCHA.")
	}
	if !parsed.Success {
		slog.Warn("turnstile verification failed", slog.Any("error_codes", parsed.ErrorCodes))
		return siteerr.CaptchaRejected()
	}
	return nil
}
