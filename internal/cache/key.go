package cache

import (
	"fmt"
	"strings"
)

// escapeByte introduces a two-digit hex escape in an encoded key.
const escapeByte = '%'

const hexDigits = "0123456789ABCDEF"

// reservedBytes have a meaning to at least one filesystem weathr runs on.
const reservedBytes = `%/\:*?"<>|`

// needsEscape also covers upper-case ASCII and every non-ASCII byte, so no
// two encoded keys differ only by letter case. Keys then stay distinct on
// case-insensitive filesystems such as APFS and NTFS.
func needsEscape(b byte) bool {
	return b < 0x20 || b >= 0x7f || (b >= 'A' && b <= 'Z') || strings.IndexByte(reservedBytes, b) >= 0
}

// EncodeKey maps a cache key onto a single path element.
//
// Reserved bytes become %XX. The escape byte itself is always escaped, so the
// mapping is one-to-one and DecodeKey(EncodeKey(k)) == k for every key.
// Literal letters in the result are all lower case.
func EncodeKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidCacheKey
	}

	// "." and ".." are the only path elements made of legal bytes that still
	// name something other than a child directory.
	dotOnly := key == "." || key == ".."

	var b strings.Builder
	b.Grow(len(key))
	for i := range len(key) {
		c := key[i]
		if needsEscape(c) || (dotOnly && c == '.') {
			b.WriteByte(escapeByte)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// DecodeKey reverses EncodeKey.
func DecodeKey(encoded string) (string, error) {
	if encoded == "" {
		return "", ErrInvalidCacheKey
	}

	var b strings.Builder
	b.Grow(len(encoded))
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c != escapeByte {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(encoded) {
			return "", fmt.Errorf("%w: truncated escape in %q", ErrInvalidCacheKey, encoded)
		}
		hi, okHi := unhex(encoded[i+1])
		lo, okLo := unhex(encoded[i+2])
		if !okHi || !okLo {
			return "", fmt.Errorf("%w: bad escape %q", ErrInvalidCacheKey, encoded[i:i+3])
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
