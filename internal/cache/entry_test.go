package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEntryExpiry(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	entry := &CacheEntry{Key: "k", ExpiresAt: now.Add(90 * time.Second)}

	assert.False(t, entry.IsExpired(now))
	assert.Equal(t, 90*time.Second, entry.TimeUntilExpiration(now))

	assert.True(t, entry.IsExpired(entry.ExpiresAt), "expiring at now counts as expired")
	assert.True(t, entry.IsExpired(now.Add(time.Hour)))
	assert.Equal(t, time.Duration(0), entry.TimeUntilExpiration(now.Add(time.Hour)))
}

func TestExpirationNames(t *testing.T) {
	local := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 2*3600))
	name := FormatExpiration(local)
	assert.Equal(t, "20260102T010405Z", name)

	parsed, err := ParseExpiration(name)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(local))

	_, err = ParseExpiration("properties.json")
	assert.ErrorIs(t, err, ErrBadEntryName)

	earlier := FormatExpiration(local.Add(-time.Second))
	assert.Less(t, earlier, name, "names sort chronologically")
}
