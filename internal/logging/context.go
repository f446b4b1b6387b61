package logging

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

type runIDKey struct{}

// FromContext returns the logger stored in ctx. Without one it returns a
// disabled logger, so library code can log unconditionally.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// NewRunID returns a fresh, time-ordered run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// ContextWithRunID stores id in ctx.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run identifier in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// GetOrGenerateRunID returns the run identifier in ctx, making one if absent.
func GetOrGenerateRunID(ctx context.Context) string {
	if id := RunIDFromContext(ctx); id != "" {
		return id
	}
	return NewRunID()
}

// WithRun attaches l to ctx, tagged with the run identifier, and records the
// identifier in ctx as well.
func WithRun(ctx context.Context, l zerolog.Logger) context.Context {
	id := GetOrGenerateRunID(ctx)
	ctx = ContextWithRunID(ctx, id)
	tagged := l.With().Str("run_id", id).Logger()
	return tagged.WithContext(ctx)
}
