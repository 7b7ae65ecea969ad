// Package geoip provides an HTTP client for the ip-geolocation service.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aviatehq/aviate/ports"
	"github.com/rs/zerolog"
)

// Lookup failures are typed so tests and metrics can tell them apart. The
// pricing resolver collapses all of them to "no detection".
var (
	ErrBadStatus     = errors.New("geoip: non-2xx response")
	ErrMalformedBody = errors.New("geoip: malformed response body")
)

// Config contains configuration for the geo lookup client.
type Config struct {
	// BaseURL of the ipapi.co-compatible service.
	BaseURL string

	// Timeout bounds each lookup. The upstream has been observed to hang;
	// a request without a deadline would stall the pricing page.
	Timeout time.Duration
}

// Client resolves country codes via an external geolocation API.
type Client struct {
	client  *http.Client
	baseURL *url.URL
	logger  zerolog.Logger
}

// New creates a geo lookup client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://ipapi.co"
	}
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  logger.With().Str("component", "geoip").Logger(),
	}, nil
}

// Country resolves the country code for an IP. An empty ip requests
// GET /json/, asking the service to infer from the live connection.
// Geography is best-effort: the method returns an error instead of ever
// panicking into the caller, and callers treat any error as "unknown".
func (c *Client) Country(ctx context.Context, ip string) (string, error) {
	path := "/json/"
	if ip != "" {
		path = "/" + url.PathEscape(ip) + "/json/"
	}
	lookupURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("ip", ip).Msg("geo lookup failed")
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Str("ip", ip).Msg("geo lookup rejected")
		return "", fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed struct {
		CountryCode string `json:"country_code"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn().Err(err).Str("ip", ip).Msg("geo lookup returned malformed body")
		return "", fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	return parsed.CountryCode, nil
}

// Ensure interface compliance.
var _ ports.GeoLookup = (*Client)(nil)
