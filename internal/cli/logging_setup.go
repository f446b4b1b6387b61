package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/weathr/internal/config"
	"github.com/rshade/weathr/internal/logging"
	"github.com/rshade/weathr/internal/version"
)

// setupLogging configures logging based on config file, environment, and CLI flags,
// and stores the logger in the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config, verbosity int, debug bool) (logging.LogPathResult, zerolog.Logger) {
	loggingCfg := cfg.Logging.WithVerbosity(verbosity)
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger := logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && verbosity > 0 {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := logging.WithRun(cmd.Context(), result.Logger)
	cmd.SetContext(ctx)

	logger.Debug().
		Str("run_id", logging.RunIDFromContext(ctx)).
		Str("level", loggingCfg.Level).
		Str("config_dir", cfg.Dir).
		Str("commit", version.GetCommit()).
		Msg("command started")

	return result, logger
}
