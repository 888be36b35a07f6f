package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RefreshFunc obtains a fresh upstream access token and its expiry.
type RefreshFunc func(ctx context.Context) (token string, expiresAt time.Time, err error)

// refreshLeeway is how long before expiry a cached token is considered
// stale, so in-flight requests don't race the upstream clock.
const refreshLeeway = 30 * time.Second

// CachingTokenSource caches an upstream access token and refreshes it
// before expiry. Refreshes are single-flight: concurrent callers block on
// the one in progress instead of issuing their own.
type CachingTokenSource struct {
	refresh RefreshFunc
	now     func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewCachingTokenSource wraps refresh with caching and single-flight.
func NewCachingTokenSource(refresh RefreshFunc) *CachingTokenSource {
	return &CachingTokenSource{refresh: refresh, now: time.Now}
}

// Token returns the cached token, refreshing it first when missing or
// within the expiry leeway.
func (s *CachingTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Add(refreshLeeway).Before(s.expiresAt) {
		return s.token, nil
	}

	token, expiresAt, err := s.refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	s.token = token
	s.expiresAt = expiresAt
	return token, nil
}

// Invalidate drops the cached token if it is still the one the caller saw
// fail, forcing the next Token call to refresh. A token cached after the
// failing request is left alone.
func (s *CachingTokenSource) Invalidate(failed string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == failed {
		s.token = ""
		s.expiresAt = time.Time{}
	}
}

// APIKeyRefresh returns a RefreshFunc that exchanges a long-lived API key
// for a short-lived access token at the upstream token endpoint.
func APIKeyRefresh(tokenURL, apiKey string, httpClient *http.Client) RefreshFunc {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return func(ctx context.Context) (string, time.Time, error) {
		payload := strings.NewReader(fmt.Sprintf(`{"api_key":%q}`, apiKey))
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, payload)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("build token request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := httpClient.Do(req)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("POST %s: %w", tokenURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", time.Time{}, fmt.Errorf("token endpoint returned %d", resp.StatusCode)
		}

		var body struct {
			AccessToken string `json:"access_token"`
			ExpiresIn   int    `json:"expires_in"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", time.Time{}, fmt.Errorf("decode token response: %w", err)
		}
		if body.AccessToken == "" {
			return "", time.Time{}, fmt.Errorf("token endpoint returned empty token")
		}
		return body.AccessToken, time.Now().Add(time.Duration(body.ExpiresIn) * time.Second), nil
	}
}
