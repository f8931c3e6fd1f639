package app

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/bjaus/fconv/internal/logging"
)

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag (explicit always wins)
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. Default (info)
func NewLogger(config *Config, w io.Writer) zerolog.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = determineLogLevel(config, w)
	if config.LogFormat != "" {
		cfg.Format = config.LogFormat
	}
	cfg.Output = w
	cfg.NoColor = cfg.NoColor || config.NoColor
	return logging.New(cfg)
}

// determineLogLevel applies the precedence rules. Warnings about conflicting
// or invalid input are written to w.
func determineLogLevel(config *Config, w io.Writer) string {
	if config.LogLevel != "" {
		validated := validateLogLevel(config.LogLevel)
		if validated != config.LogLevel {
			fmt.Fprintf(w, "Warning: invalid log level %q, using %q\n", config.LogLevel, validated)
		}
		return validated
	}

	if config.Verbose && config.Quiet {
		fmt.Fprintf(w, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}
	return "info"
}

// validateLogLevel returns level when it is known, else "info".
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	}
	return "info"
}
