package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/weathr/internal/config"
	"github.com/rshade/weathr/internal/forecast"
	"github.com/rshade/weathr/internal/nws"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"generic", errors.New("boom"), ExitFailure},
		{"canceled", context.Canceled, ExitFailure},
		{"no snapshot", fmt.Errorf("resolving location: %w", forecast.ErrNoSnapshot), ExitFailure},
		{"no snapshot path", forecast.ErrNoSnapshotPath, ExitNoConfigDir},
		{"no config dir", config.ErrNoConfigDir, ExitNoConfigDir},
		{"malformed", fmt.Errorf("forecast: %w", nws.ErrMalformedJSON), ExitMalformedJSON},
		{"network", fmt.Errorf("x: %w", nws.ErrNetwork), ExitNetwork},
		{"not text", nws.ErrNotText, ExitNetwork},
		{"missing field", nws.ErrMissingField, ExitMissingField},
		{"wrong type", nws.ErrWrongType, ExitMissingField},
		{"coordinates", nws.ErrInvalidCoordinates, ExitInvalidCoordinates},
		{"unit", forecast.ErrUnknownUnit, ExitUsage},
		{"explicit", &ExitError{Code: 42, Err: nws.ErrNetwork}, 42},
		{"wrapped explicit", fmt.Errorf("outer: %w", usageError(errors.New("bad flag"))), ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	err := classify(fmt.Errorf("stations: %w", nws.ErrNetwork))
	var exitErr *ExitError
	assert.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ExitNetwork, exitErr.Code)
	assert.ErrorIs(t, err, nws.ErrNetwork)
	assert.Equal(t, "stations: network request failed", err.Error())

	explicit := &ExitError{Code: 9, Err: errors.New("x")}
	assert.Same(t, explicit, classify(explicit))
}

func TestExitErrorWithoutCause(t *testing.T) {
	assert.Equal(t, "exit status 3", (&ExitError{Code: 3}).Error())
}
