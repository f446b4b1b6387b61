package cli

import (
	"errors"
	"fmt"

	"github.com/rshade/weathr/internal/config"
	"github.com/rshade/weathr/internal/forecast"
	"github.com/rshade/weathr/internal/nws"
)

// Process exit codes.
const (
	ExitOK                 = 0
	ExitFailure            = 1
	ExitUsage              = 2
	ExitNoConfigDir        = 3
	ExitMalformedJSON      = 4
	ExitNetwork            = 5
	ExitMissingField       = 6
	ExitInvalidCoordinates = 7
)

// ExitError carries the exit code for an error up to main.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// usageError marks err as a command-line mistake.
func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}

// classify wraps err in an ExitError chosen from the failure it carries.
// Errors that already carry a code are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: ExitCodeFor(err), Err: err}
}

// ExitCodeFor maps an error to a process exit code.
func ExitCodeFor(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, nws.ErrInvalidCoordinates):
		return ExitInvalidCoordinates
	case errors.Is(err, config.ErrNoConfigDir), errors.Is(err, forecast.ErrNoSnapshotPath):
		return ExitNoConfigDir
	case errors.Is(err, nws.ErrMalformedJSON):
		return ExitMalformedJSON
	case errors.Is(err, nws.ErrNetwork), errors.Is(err, nws.ErrNotText):
		return ExitNetwork
	case errors.Is(err, nws.ErrMissingField), errors.Is(err, nws.ErrWrongType):
		return ExitMissingField
	case errors.Is(err, forecast.ErrUnknownUnit):
		return ExitUsage
	default:
		return ExitFailure
	}
}
