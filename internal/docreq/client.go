package docreq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource supplies the bearer token attached to upstream calls.
// Implemented by the proxy's refreshing token cache.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token. Useful for tests
// and local development against a stub upstream.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Client is a typed HTTP client for the upstream document-processing API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates a client for the API rooted at baseURL. A nil
// httpClient falls back to a client with a 15 second timeout.
func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

// SearchRequests fetches one page of document-processing requests matching
// the query. The upstream applies filter, sort, and pagination; the result
// is rendered as-is by server-mode tables.
func (c *Client) SearchRequests(ctx context.Context, q Query) (Page[Request], error) {
	var page Page[Request]
	err := c.getJSON(ctx, "/requests", q.Values(), &page)
	return page, err
}

// GetRequest fetches a single request for the detail view.
func (c *Client) GetRequest(ctx context.Context, id string) (Request, error) {
	var req Request
	err := c.getJSON(ctx, "/requests/"+url.PathEscape(id), nil, &req)
	return req, err
}

// ListBatches fetches one page of batches.
func (c *Client) ListBatches(ctx context.Context, q Query) (Page[Batch], error) {
	var page Page[Batch]
	err := c.getJSON(ctx, "/batches", q.Values(), &page)
	return page, err
}

// ListErrors fetches one page of processing errors.
func (c *Client) ListErrors(ctx context.Context, q Query) (Page[ProcessingError], error) {
	var page Page[ProcessingError]
	err := c.getJSON(ctx, "/errors", q.Values(), &page)
	return page, err
}

// getJSON performs an authenticated GET and decodes the JSON response into
// out. Non-2xx responses become errors carrying the status and a trimmed
// body excerpt.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("acquire token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned %d: %s", e.Path, e.StatusCode, e.Body)
}

// newStatusError builds a StatusError with a bounded body excerpt.
func newStatusError(path string, resp *http.Response) *StatusError {
	const maxExcerpt = 256
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxExcerpt))
	return &StatusError{
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
