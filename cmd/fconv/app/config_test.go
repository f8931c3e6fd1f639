package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addGlobalFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig(newViper(), newFlags(t, "--config", writeConfig(t, "")))
	require.NoError(t, err)
	assert.Equal(t, ",", cfg.Delimiter)
	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, "rounded", cfg.Border)
	assert.Equal(t, 40, cfg.MaxCellWidth)
}

func TestLoadConfigFileAndFlags(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "delimiter: \";\"\nindent: 4\nborder: heavy\n")

	cfg, err := LoadConfig(newViper(), newFlags(t, "--config", path, "--indent", "3"))
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, ";", cfg.Delimiter)
	assert.Equal(t, 3, cfg.Indent, "flag overrides config file")
	assert.Equal(t, "heavy", cfg.Border)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "multi-char delimiter", args: []string{"--delimiter", ";;"}},
		{name: "quote delimiter", args: []string{"--delimiter", `"`}},
		{name: "unknown border", args: []string{"--border", "dotted"}},
		{name: "negative indent", args: []string{"--indent", "-1"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := append([]string{"--config", writeConfig(t, "")}, tt.args...)
			_, err := LoadConfig(newViper(), newFlags(t, args...))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Parallel()
	_, err := LoadConfig(newViper(), newFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	require.Error(t, err)
}

func TestParseDelimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want rune
	}{
		{"", ','},
		{",", ','},
		{"tab", '\t'},
		{`\t`, '\t'},
		{";", ';'},
		{"|", '|'},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := parseDelimiter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "fconv.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}
