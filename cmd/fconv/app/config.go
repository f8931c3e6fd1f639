package app

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bjaus/fconv"
)

// envPrefix scopes environment overrides, e.g. FCONV_DELIMITER.
const envPrefix = "FCONV"

// Config holds the application configuration loaded from flags, FCONV_*
// environment variables, .env files, and the config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Converter configuration
	Delimiter    string
	Indent       int
	IndexColumn  string
	JSONComments bool
	FenceSource  bool
	Border       string
	MaxCellWidth int
}

// newViper returns a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-format", "auto")
	v.SetDefault("delimiter", ",")
	v.SetDefault("indent", 2)
	v.SetDefault("border", "rounded")
	v.SetDefault("max-cell-width", 40)
	return v
}

// addGlobalFlags registers the persistent flags every command accepts.
func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default is $HOME/.fconv.yaml)")
	fs.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	fs.String("log-format", "auto", "log format: auto, console, json")
	fs.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	fs.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	fs.Bool("no-color", false, "disable colored output")
	fs.String("delimiter", ",", `CSV field delimiter ("tab" for \t)`)
	fs.Int("indent", 2, "JSON and YAML indentation width")
	fs.String("index-column", "", "column naming INI sections when rows are unlabelled")
	fs.Bool("json-comments", false, "accept comments and trailing commas in JSON input")
	fs.Bool("fence-source", false, "wrap source code written as Markdown in a code fence")
	fs.String("border", "rounded", "preview border: rounded, none, ascii, heavy, double")
	fs.Int("max-cell-width", 40, "truncate preview cells wider than this (0 disables)")
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags
//  2. FCONV_* environment variables
//  3. .env files
//  4. Config file (--config, else ~/.fconv.yaml or ./.fconv.yaml)
//  5. Defaults
func LoadConfig(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	loadEnvFiles()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".fconv")
		// Missing default config files are fine.
		_ = v.ReadInConfig()
	}

	cfg := &Config{
		Verbose:      v.GetBool("verbose"),
		Quiet:        v.GetBool("quiet"),
		NoColor:      v.GetBool("no-color") || os.Getenv("NO_COLOR") != "",
		ConfigFile:   v.ConfigFileUsed(),
		LogLevel:     v.GetString("log-level"),
		LogFormat:    v.GetString("log-format"),
		Delimiter:    v.GetString("delimiter"),
		Indent:       v.GetInt("indent"),
		IndexColumn:  v.GetString("index-column"),
		JSONComments: v.GetBool("json-comments"),
		FenceSource:  v.GetBool("fence-source"),
		Border:       v.GetString("border"),
		MaxCellWidth: v.GetInt("max-cell-width"),
	}
	if _, err := cfg.Options(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Options maps the configuration onto converter options.
func (c *Config) Options() ([]fconv.Option, error) {
	comma, err := parseDelimiter(c.Delimiter)
	if err != nil {
		return nil, err
	}
	border, err := fconv.ParseBorder(c.Border)
	if err != nil {
		return nil, err
	}
	if c.Indent < 0 {
		return nil, fmt.Errorf("indent must not be negative: %d", c.Indent)
	}
	return []fconv.Option{
		fconv.WithDelimiter(comma),
		fconv.WithIndent(c.Indent),
		fconv.WithIndexColumn(c.IndexColumn),
		fconv.WithJSONComments(c.JSONComments),
		fconv.WithFenceSource(c.FenceSource),
		fconv.WithBorder(border),
		fconv.WithMaxCellWidth(c.MaxCellWidth),
	}, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("delimiter must be a single character: %q", s)
	}
	if r == '\r' || r == '\n' || r == '"' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
