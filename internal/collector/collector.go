package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/model"
)

var (
	// ErrNotFound is returned when the platform reports no profile for
	// the handle.
	ErrNotFound = errors.New("collector: profile not found")

	// ErrUnexpectedStatus is returned when the platform responds with a
	// status code the collector cannot interpret.
	ErrUnexpectedStatus = errors.New("collector: unexpected response status")
)

// Collector fetches the raw payload for one platform.
//
// Design decision: collectors return a PlatformPayload rather than writing
// into the unified profile directly because:
//  1. Fusion order must be enforced in one place, not per collector
//  2. Payloads can alternatively be loaded from a file and replayed
//  3. A collector failure then simply means one missing payload
type Collector interface {
	// Collect fetches the payload for the given handle. Implementations
	// must respect context cancellation.
	Collect(ctx context.Context, handle string) (*model.PlatformPayload, error)

	// Platform returns the platform this collector serves.
	Platform() model.Platform
}

// client bundles the HTTP settings every network collector shares.
type client struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
	headers     map[string]string
}

func newClient(cfg *config.Config, pc config.PlatformConfig) client {
	return client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
		headers:     pc.Headers,
	}
}

// get performs a GET request and returns the body, capped at maxBodySize.
// A 404 maps to ErrNotFound so callers can distinguish absent profiles
// from transport failures.
func (c client) get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// getJSON performs a GET request and decodes the JSON response into v.
func (c client) getJSON(ctx context.Context, url string, header http.Header, v any) error {
	body, err := c.get(ctx, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
