package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   *Config
		expected string
		warns    bool
	}{
		{name: "default level when no flags set", config: &Config{}, expected: "info"},
		{name: "verbose flag sets debug", config: &Config{Verbose: true}, expected: "debug"},
		{name: "quiet flag sets warn", config: &Config{Quiet: true}, expected: "warn"},
		{name: "explicit log-level overrides verbose", config: &Config{LogLevel: "error", Verbose: true}, expected: "error"},
		{name: "both shortcuts prefer quiet", config: &Config{Verbose: true, Quiet: true}, expected: "warn", warns: true},
		{name: "invalid level falls back to info", config: &Config{LogLevel: "loud"}, expected: "info", warns: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			assert.Equal(t, tt.expected, determineLogLevel(tt.config, &buf))
			assert.Equal(t, tt.warns, buf.Len() > 0)
		})
	}
}
