// Package logging builds the zerolog loggers used by the fconv command.
//
// Console output is chosen automatically when the destination is a
// terminal; anything else receives JSON lines.
//
//	log := logging.New(logging.Config{Level: "debug"})
//	log.Debug().Str("path", p).Msg("detected")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Format names.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum log level to output.
	Level string

	// Format is auto, console, or json.
	Format string

	// Output is where to write logs. Default: os.Stderr.
	Output io.Writer

	// NoColor disables color output in console mode.
	NoColor bool
}

// DefaultConfig returns info-level, auto-format logging to stderr.
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Format:  FormatAuto,
		Output:  os.Stderr,
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// New creates a logger from cfg.
func New(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	level := ParseLevel(cfg.Level)

	var w io.Writer = cfg.Output
	if resolveFormat(cfg.Format, cfg.Output) == FormatConsole {
		w = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	// Add caller information in debug mode
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// ParseLevel parses a log level name. Unknown names yield info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "", "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "none", "off":
		return zerolog.Disabled
	default:
		if l, err := zerolog.ParseLevel(level); err == nil {
			return l
		}
		return zerolog.InfoLevel
	}
}

func resolveFormat(format string, out io.Writer) string {
	switch strings.ToLower(format) {
	case FormatConsole, "pretty":
		return FormatConsole
	case FormatJSON:
		return FormatJSON
	}
	if IsTerminal(out) {
		return FormatConsole
	}
	return FormatJSON
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
