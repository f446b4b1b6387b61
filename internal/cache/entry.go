package cache

import (
	"fmt"
	"time"
)

// ExpirationLayout names entry files. It is fixed width and sorts
// chronologically as plain text.
const ExpirationLayout = "20060102T150405Z"

// CacheEntry is one cached response body and the instant it stops being valid.
//
//nolint:revive // CacheEntry is the canonical name for this exported type.
type CacheEntry struct {
	// Key is the request key (the full request URL).
	Key string

	// ExpiresAt is the absolute expiration instant supplied by the server.
	ExpiresAt time.Time

	// Body is the raw response body.
	Body []byte
}

// IsExpired reports whether the entry is no longer usable at now.
// An entry expiring exactly at now counts as expired.
func (e *CacheEntry) IsExpired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// TimeUntilExpiration returns the remaining lifetime at now, or 0 if expired.
func (e *CacheEntry) TimeUntilExpiration(now time.Time) time.Duration {
	if e.IsExpired(now) {
		return 0
	}
	return e.ExpiresAt.Sub(now)
}

// FormatExpiration renders t as an entry file name.
func FormatExpiration(t time.Time) string {
	return t.UTC().Format(ExpirationLayout)
}

// ParseExpiration parses an entry file name back into an instant.
func ParseExpiration(name string) (time.Time, error) {
	t, err := time.Parse(ExpirationLayout, name)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadEntryName, name)
	}
	return t, nil
}
