// Package app wires configuration, logging, and the converter into the fconv
// command tree.
package app

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/bjaus/fconv"
)

// App holds the fconv command's dependencies.
type App struct {
	version string

	viper  *viper.Viper
	config *Config
	logger zerolog.Logger
	conv   *fconv.Converter

	stdout io.Writer
	stderr io.Writer
}

// Option customizes an App.
type Option func(*App)

// WithOutput redirects command output and diagnostics.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// New creates an App. Configuration is loaded when a command runs, after
// flags are parsed.
func New(version string, opts ...Option) (*App, error) {
	a := &App{
		version: version,
		viper:   newViper(),
		config:  &Config{},
		logger:  zerolog.Nop(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.conv = fconv.New()
	return a, nil
}

// Config returns the loaded configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return &a.logger }

// Converter returns the converter built from the configuration.
func (a *App) Converter() *fconv.Converter { return a.conv }

// configure builds the logger and converter from cfg.
func (a *App) configure(cfg *Config) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	a.config = cfg
	a.logger = NewLogger(cfg, a.stderr)
	opts = append(opts, fconv.WithLogger(a.logger))
	if style := a.headerStyle(); style != nil {
		opts = append(opts, fconv.WithHeaderStyle(style))
	}
	a.conv = fconv.New(opts...)
	return nil
}

// headerStyle returns the lipgloss renderer for preview headers, or nil when
// color is disabled.
func (a *App) headerStyle() func(string) string {
	if a.Config().NoColor {
		return nil
	}
	style := lipgloss.NewRenderer(a.stdout).
		NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	return func(s string) string { return style.Render(s) }
}
