// Package nws talks to the U.S. National Weather Service API: it fetches
// responses through the on-disk cache and decodes them into typed shapes.
package nws

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public NWS API endpoint.
const DefaultBaseURL = "https://api.weather.gov"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// acceptGeoJSON is the media type the API serves by default.
const acceptGeoJSON = "application/geo+json"

// Cache is the part of the response cache the gateway needs.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, expiresAt time.Time, body []byte) error
}

// Gateway performs cache-or-fetch requests.
type Gateway struct {
	cache     Cache
	client    *http.Client
	userAgent string
	now       func() time.Time
	logger    zerolog.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) { g.client = c }
}

// WithGatewayLogger sets the gateway logger.
func WithGatewayLogger(l zerolog.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = l }
}

// WithGatewayClock replaces time.Now, for tests.
func WithGatewayClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) { g.now = now }
}

// NewGateway returns a gateway that identifies itself with userAgent.
// The API rejects requests without one.
func NewGateway(cache Cache, userAgent string, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		cache:     cache,
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: userAgent,
		now:       time.Now,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fetch returns the body for url, from the cache when a live entry exists and
// from the network otherwise. Network responses are cached until the instant
// in their Expires header; without one, or with one already past, they are
// not cached at all.
//
// There is no retry. A transport failure, a non-2xx status or a body that is
// not text is returned as ErrNetwork or ErrNotText.
func (g *Gateway) Fetch(ctx context.Context, url string) (string, error) {
	if g.cache != nil {
		if body, ok := g.cache.Get(url); ok {
			g.logger.Debug().Str("url", url).Msg("served from cache")
			return string(body), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request for %s: %w", ErrNetwork, url, err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", acceptGeoJSON)

	start := g.now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %w", ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", ErrNetwork, url, err)
	}

	g.logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", g.now().Sub(start)).
		Msg("fetched")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: GET %s: HTTP %d: %s", ErrNetwork, url, resp.StatusCode, problemDetail(body))
	}

	if !utf8.Valid(body) {
		return "", fmt.Errorf("%w: %s", ErrNotText, url)
	}

	g.store(url, resp.Header.Get("Expires"), body)
	return string(body), nil
}

// store caches body when the response carries a usable expiration.
func (g *Gateway) store(url, expires string, body []byte) {
	if g.cache == nil {
		return
	}
	expiresAt, ok := ParseExpires(expires)
	if !ok {
		g.logger.Debug().Str("url", url).Str("expires", expires).Msg("response not cacheable")
		return
	}
	if !expiresAt.After(g.now()) {
		g.logger.Debug().Str("url", url).Time("expires", expiresAt).Msg("response already expired")
		return
	}
	// Put logs its own failures; the current run does not depend on them.
	_ = g.cache.Put(url, expiresAt, body)
}

// ParseExpires reads an HTTP Expires header. An empty or unparseable value
// yields false: such a response is not cached, rather than cached forever.
func ParseExpires(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// problemDetail extracts a short message from an error response body.
func problemDetail(body []byte) string {
	var p struct {
		Title  Field[string] `json:"title"`
		Detail Field[string] `json:"detail"`
	}
	if err := decode(body, &p); err == nil {
		if d, ok := p.Detail.Get(); ok && d != "" {
			return d
		}
		if t, ok := p.Title.Get(); ok {
			return t
		}
	}

	const maxSnippet = 120
	if len(body) > maxSnippet {
		body = body[:maxSnippet]
	}
	return string(body)
}
