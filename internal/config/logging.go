package config

import (
	"github.com/rshade/weathr/internal/logging"
)

// ToLoggingConfig converts config.LoggingConfig to logging.Config for use with
// the internal/logging package.
//
// The conversion applies these rules:
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// WithVerbosity returns a copy raised to debug for one -v and trace for two
// or more. Lower counts leave the level alone.
func (lc LoggingConfig) WithVerbosity(count int) LoggingConfig {
	switch {
	case count >= 2:
		lc.Level = "trace"
	case count == 1:
		lc.Level = "debug"
	}
	return lc
}
