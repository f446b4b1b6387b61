package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1.2.3", "1.2.3"},
		{"v1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.4", "1.4.0"},
		{"nightly", "0.0.0+nightly"},
		{"abc_123", "0.0.0+abc-123"},
		{"", "0.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.raw))
		})
	}
}

func TestUserAgent(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	version = "v2.0.1"
	assert.Equal(t, "weathr/2.0.1 (ops@example.com)", UserAgent("ops@example.com"))
	assert.Equal(t, "weathr/2.0.1", UserAgent(""))
}

func TestGetCommit(t *testing.T) {
	assert.NotEmpty(t, GetCommit())
}
