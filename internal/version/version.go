// Package version reports the build version and the User-Agent derived from it.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Set at link time with -ldflags "-X github.com/rshade/weathr/internal/version.version=...".
var (
	version = "0.1.0-dev" //nolint:gochecknoglobals // set by the linker
	commit  = "unknown"   //nolint:gochecknoglobals // set by the linker
)

// fallback is reported when the linked version is not semantic.
const fallback = "0.0.0"

// GetVersion returns the build version in canonical semver form without a
// leading "v". A version that does not parse is reported as 0.0.0 with the
// raw string kept as build metadata.
func GetVersion() string {
	return normalize(version)
}

// GetCommit returns the VCS revision the binary was built from.
func GetCommit() string {
	return commit
}

func normalize(raw string) string {
	v, err := semver.NewVersion(raw)
	if err != nil {
		meta, metaErr := semver.NewVersion(fallback + "+" + sanitizeMetadata(raw))
		if metaErr != nil {
			return fallback
		}
		return meta.String()
	}
	return v.String()
}

// sanitizeMetadata keeps only characters allowed in semver build metadata.
func sanitizeMetadata(s string) string {
	out := make([]byte, 0, len(s))
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-', c == '.':
			out = append(out, c)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}

// UserAgent is the header value sent with every request:
// "weathr/<version> (<contact>)".
func UserAgent(contact string) string {
	if contact == "" {
		return "weathr/" + GetVersion()
	}
	return fmt.Sprintf("weathr/%s (%s)", GetVersion(), contact)
}
