package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/rshade/weathr/internal/cache"
	"github.com/rshade/weathr/internal/config"
	"github.com/rshade/weathr/internal/forecast"
	"github.com/rshade/weathr/internal/fsys"
	"github.com/rshade/weathr/internal/layout"
	"github.com/rshade/weathr/internal/logging"
	"github.com/rshade/weathr/internal/migration"
	"github.com/rshade/weathr/internal/nws"
	"github.com/rshade/weathr/internal/version"
)

// rootFlags holds the parsed command-line flags.
type rootFlags struct {
	latLong    string
	configFile string
	unit       string
	verbose    int
	wide       int
	purge      bool
	debug      bool
}

// NewRootCmd creates the root Cobra command for the weathr CLI, reading the
// real process environment.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, config.OSEnv())
}

// NewRootCmdWithEnv creates the root command with an explicit environment for testability.
// This allows tests to inject WEATHR_* variables and a configuration directory.
func NewRootCmdWithEnv(ver string, env config.Env) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "weathr",
		Short: "Current conditions and forecast from the National Weather Service",
		Long: `weathr prints the latest observed temperature at the station nearest to a
location, followed by the forecast laid out in columns across the terminal.

The location given with --latlong is remembered, so later runs can omit it.
API responses are cached on disk until the expiry time the service sends.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return classify(runWeather(cmd, env, &flags))
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	f := cmd.Flags()
	f.StringVarP(&flags.latLong, "latlong", "l", "", "location as <lat>,<long> in decimal degrees; saved for later runs")
	f.StringVarP(&flags.configFile, "configfile", "c", "", "location snapshot file (default <config dir>/properties.json)")
	f.StringVar(&flags.unit, "unit", "", "temperature unit for the current observation: F or C")
	f.CountVarP(&flags.verbose, "verbose", "v", "log more; repeat for trace output")
	f.CountVarP(&flags.wide, "wide", "w", "widen forecast columns to 30, or 40 when repeated")
	f.BoolVar(&flags.purge, "purge", false, "delete every cached response and exit")
	f.BoolVar(&flags.debug, "debug", false, "enable debug logging on stderr")

	return cmd
}

const rootCmdExample = `  # First run: look up a location and remember it
  weathr --latlong 39.0473,-95.6752

  # Later runs reuse the saved location
  weathr

  # Wider columns and Celsius
  weathr -ww --unit C

  # Keep a separate saved location
  weathr -c ~/cabin.json -l 44.4280,-110.5885

  # Drop all cached responses
  weathr --purge`

// runWeather performs one invocation: purge, or fetch and print the report.
func runWeather(cmd *cobra.Command, env config.Env, flags *rootFlags) error {
	migrateLegacy(cmd, env)

	cfg, err := config.Load(env)
	if err != nil {
		return err
	}
	if flags.configFile != "" {
		cfg.SnapshotOverride = flags.configFile
	}

	logResult, logger := setupLogging(cmd, cfg, flags.verbose, flags.debug)
	defer func() {
		if closeErr := logResult.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("closing log file")
		}
	}()

	store := cache.NewFileStore(cfg.CacheDir(), fsys.OS{},
		cache.WithLogger(logging.ComponentLogger(logResult.Logger, "cache")))

	if flags.purge {
		if !cfg.HasDir() {
			return config.ErrNoConfigDir
		}
		return purgeCache(cmd, store)
	}

	var coords *nws.Coordinates
	if flags.latLong != "" {
		c, parseErr := nws.ParseCoordinates(flags.latLong)
		if parseErr != nil {
			return parseErr
		}
		coords = &c
	}

	unit := cfg.Output.Unit
	if flags.unit != "" {
		unit = flags.unit
	}
	columnWidth := cfg.Output.ColumnWidth
	if cmd.Flags().Changed("wide") {
		columnWidth = layout.ColumnWidthForLevel(flags.wide)
	}
	loc, err := cfg.Output.Location()
	if err != nil {
		return err
	}

	gateway := nws.NewGateway(store, version.UserAgent(cfg.API.Contact),
		nws.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		nws.WithGatewayLogger(logging.ComponentLogger(logResult.Logger, "nws")))

	snapshots := forecast.NewSnapshotStore(cfg.SnapshotPath(), fsys.OS{})
	pipeline, err := forecast.New(gateway, snapshots, forecast.Options{
		BaseURL:  cfg.API.BaseURL,
		Unit:     unit,
		Location: loc,
	})
	if err != nil {
		return err
	}
	logger.Debug().
		Str("snapshot", snapshots.Path()).
		Str("unit", pipeline.Unit()).
		Str("base_url", cfg.API.BaseURL).
		Msg("pipeline ready")

	report, err := fetchReport(cmd.Context(), pipeline, coords)
	if err != nil {
		return err
	}

	width := getTerminalWidth(cmd.OutOrStdout(), cfg.Output.Width, config.DefaultTerminalWidth)
	logger.Debug().Int("terminal_width", width).Int("column_width", columnWidth).Msg("rendering")
	return renderReport(cmd.OutOrStdout(), report, columnWidth, width)
}

func fetchReport(ctx context.Context, p *forecast.Pipeline, coords *nws.Coordinates) (*forecast.Report, error) {
	report, err := p.Run(ctx, coords)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Bool("first_run", forecast.IsFirstRun(err)).Msg("run failed")
		return nil, err
	}
	return report, nil
}

// migrateLegacy copies state from the directory older releases used. It
// never fails the run.
func migrateLegacy(cmd *cobra.Command, env config.Env) {
	if env.HomeOverridden() || env.UserHomeDir == nil {
		return
	}
	home, err := env.UserHomeDir()
	if err != nil {
		return
	}
	target, err := config.GetConfigDir(env)
	if err != nil {
		return
	}
	if err := migration.RunMigration(cmd.ErrOrStderr(), fsys.OS{}, migration.LegacyDir(home), target); err != nil {
		cmd.PrintErrf("Warning: migration check failed: %v\n", err)
	}
}

func purgeCache(cmd *cobra.Command, store *cache.FileStore) error {
	if err := store.PurgeAll(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Purged cache at %s\n", store.Root())
	return err
}
