// Package captcha verifies Cloudflare Turnstile challenge tokens against
// the siteverify endpoint. With no secret configured the check is a no-op
// pass, so development environments work without a Turnstile account.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// Turnstile verification endpoint
	verifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	// Timeout for verification requests
	verifyTimeout = 10 * time.Second
)

// VerifyResponse represents the Turnstile API response.
type VerifyResponse struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier exchanges a client-supplied token for a verdict. The zero
// Secret disables verification entirely.
type Verifier struct {
	Secret   string
	Endpoint string
	Client   *http.Client
}

// New creates a Verifier for the given site secret. An empty secret means
// every submission passes.
func New(secret string) *Verifier {
	return &Verifier{
		Secret:   secret,
		Endpoint: verifyURL,
		Client:   &http.Client{Timeout: verifyTimeout},
	}
}

// Enabled reports whether a site secret is configured.
func (v *Verifier) Enabled() bool {
	return v.Secret != ""
}

// Verify checks a challenge token with the verdict service. Disabled
// verifiers always pass; a missing token always fails. Transport and
// decode failures surface as errors so the caller never mistakes an
// unreachable verdict service for a pass.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if !v.Enabled() {
		return true, nil
	}
	if token == "" {
		return false, nil
	}

	data := url.Values{}
	data.Set("secret", v.Secret)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.Endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return false, fmt.Errorf("building captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to parse captcha response: %w", err)
	}

	return result.Success, nil
}
