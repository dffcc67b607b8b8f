// Package directory queries an external identity directory to pre-fill
// participant details before registration. Its results are advisory input
// for the operator form, never authoritative: whatever comes back goes
// through the same validation as manually typed values.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when the directory has no record for the ID.
var ErrNotFound = errors.New("no directory record for this id")

// Profile is the advisory pre-fill data returned by the directory.
type Profile struct {
	Name          string `json:"name"`
	Gender        string `json:"gender"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
}

// Client talks to the configured directory endpoint. A nil Client (no
// base URL configured) disables the lookup feature.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client, or nil when baseURL is empty.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup fetches the directory record for an external ID.
func (c *Client) Lookup(ctx context.Context, externalID string) (*Profile, error) {
	u := fmt.Sprintf("%s/lookup/%s", c.baseURL, url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query directory: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	return &p, nil
}
