package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from flags, environment variables and .env files.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	Env                string        `mapstructure:"app_env"`
	LogLevel           string        `mapstructure:"log_level"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	UserAgent          string        `mapstructure:"user_agent"`
	Headers            []string      `mapstructure:"headers"`

	SourceFormat string `mapstructure:"source_format"`
	OutputFormat string `mapstructure:"output_format"`
	PathExpr     string `mapstructure:"lookup_path"`
	SinksFile    string `mapstructure:"sinks_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	// Source is the document reference (file path or URL) and Keys the path segments from positional args.
	Source string   `mapstructure:"-"`
	Keys   []string `mapstructure:"-"`
}

var flagKeys = map[string]string{
	"log-level":  "log_level",
	"timeout":    "http_timeout_seconds",
	"user-agent": "user_agent",
	"header":     "headers",
	"format":     "source_format",
	"output":     "output_format",
	"path":       "lookup_path",
	"sinks":      "sinks_file",
	"storage":    "storage_type",
	"bbolt-path": "bbolt_path",
}

// Load reads configuration from command-line args, environment variables and configs/.env.
// Flags win over environment variables, which win over defaults.
func Load(args []string, stderr io.Writer) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	fs := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetDefault("app_name", "nestget")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "warn")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("user_agent", "nestget/1.0")
	v.SetDefault("headers", []string{})
	v.SetDefault("source_format", "auto")
	v.SetDefault("output_format", "json")
	v.SetDefault("lookup_path", "")
	v.SetDefault("sinks_file", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/ledger.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finish(fs.Args()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("nestget", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: nestget [flags] <file|url> [key ...]")
		fs.PrintDefaults()
	}

	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Int64("timeout", 0, "HTTP timeout in seconds")
	fs.String("user-agent", "", "User-Agent sent when fetching URLs")
	fs.StringArray("header", nil, `extra request header "Name: value" (repeatable)`)
	fs.StringP("format", "f", "", "source format: auto, json, yaml, html")
	fs.StringP("output", "o", "", "output format: json, yaml")
	fs.StringP("path", "p", "", `dotted key path, e.g. "a.b.c" (instead of positional keys)`)
	fs.String("sinks", "", "sinks file (YAML or JSON) to deliver resolved values to")
	fs.String("storage", "", "delivery ledger: none, bbolt")
	fs.String("bbolt-path", "", "bbolt ledger file")
	return fs
}

func (cfg *Config) finish(args []string) error {
	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	cfg.SourceFormat = strings.ToLower(strings.TrimSpace(cfg.SourceFormat))
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	switch cfg.OutputFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q", cfg.OutputFormat)
	}

	if len(args) == 0 {
		return fmt.Errorf("missing source (file path or URL)")
	}
	cfg.Source = strings.TrimSpace(args[0])
	cfg.Keys = args[1:]
	if cfg.PathExpr != "" && len(cfg.Keys) > 0 {
		return fmt.Errorf("use either --path or positional keys, not both")
	}
	return nil
}

// RequestHeaders parses the configured "Name: value" header entries.
func (cfg *Config) RequestHeaders() (map[string]string, error) {
	if len(cfg.Headers) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(cfg.Headers))
	for _, raw := range cfg.Headers {
		name, value, ok := strings.Cut(raw, ":")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (expected \"Name: value\")", raw)
		}
		out[name] = value
	}
	return out, nil
}
