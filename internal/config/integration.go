package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables read by Load.
const (
	EnvHome     = "WEATHR_HOME"
	EnvConfig   = "WEATHR_CONFIG"
	EnvLogLevel = "WEATHR_LOG_LEVEL"
	EnvAPIURL   = "WEATHR_API_URL"
)

// appDirName is the directory created under the user configuration root.
const appDirName = "weathr"

// ErrNoConfigDir means neither WEATHR_HOME nor a user configuration
// directory is available.
var ErrNoConfigDir = errors.New("cannot determine configuration directory; set " + EnvHome)

// Env abstracts the process environment so tests need not touch it.
type Env struct {
	LookupEnv     func(key string) (string, bool)
	UserConfigDir func() (string, error)
	UserHomeDir   func() (string, error)
}

// OSEnv reads the real process environment.
func OSEnv() Env {
	return Env{LookupEnv: os.LookupEnv, UserConfigDir: os.UserConfigDir, UserHomeDir: os.UserHomeDir}
}

// HomeOverridden reports whether WEATHR_HOME is set.
func (e Env) HomeOverridden() bool {
	return e.get(EnvHome) != ""
}

func (e Env) get(key string) string {
	if e.LookupEnv == nil {
		return ""
	}
	v, _ := e.LookupEnv(key)
	return strings.TrimSpace(v)
}

// GetConfigDir returns the weathr configuration directory: WEATHR_HOME when
// set, otherwise "weathr" under the user configuration directory.
func GetConfigDir(env Env) (string, error) {
	if home := env.get(EnvHome); home != "" {
		return home, nil
	}
	if env.UserConfigDir == nil {
		return "", ErrNoConfigDir
	}
	base, err := env.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoConfigDir, err)
	}
	if base == "" {
		return "", ErrNoConfigDir
	}
	return filepath.Join(base, appDirName), nil
}

// Load builds the run configuration: defaults, then the settings file, then
// environment overrides. A missing configuration directory is not an error
// here; the returned Config simply has no Dir.
func Load(env Env) (*Config, error) {
	cfg := New()

	dir, err := GetConfigDir(env)
	if err == nil {
		cfg.Dir = dir
	}

	settings := env.get(EnvConfig)
	explicit := settings != ""
	if !explicit {
		settings = cfg.SettingsPath()
	}
	if settings != "" {
		if mergeErr := ShallowMergeYAML(cfg, settings); mergeErr != nil {
			if explicit || !errors.Is(mergeErr, os.ErrNotExist) {
				return nil, mergeErr
			}
		}
	}

	if level := env.get(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if base := env.get(EnvAPIURL); base != "" {
		cfg.API.BaseURL = base
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.Output.Unit = strings.ToUpper(cfg.Output.Unit)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
