package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Keys of the settings that flags and environment variables can override.
const (
	KeyRoot           = "recipes.root"
	KeyExtension      = "recipes.extension"
	KeyFuzzyThreshold = "resolver.fuzzy_threshold"
	KeyTieMargin      = "resolver.tie_margin"
	KeyMaxDepth       = "report.max_depth"
	KeyConcurrency    = "report.concurrency"
	KeyAisle          = "aisle"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyServerAddr     = "server.addr"
)

// EnvPrefix is prepended to every environment variable, so COOK_RECIPES_ROOT
// sets recipes.root.
const EnvPrefix = "COOK"

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the fully resolved application configuration.
type Config struct {
	Recipes  Recipes                       `mapstructure:"recipes"`
	Resolver Resolver                      `mapstructure:"resolver"`
	Report   Report                        `mapstructure:"report"`
	Units    map[string]map[string]float64 `mapstructure:"units"`
	Aisle    string                        `mapstructure:"aisle"`
	Log      Log                           `mapstructure:"log"`
	Server   Server                        `mapstructure:"server"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

// Recipes locates the recipe collection.
type Recipes struct {
	Root      string `mapstructure:"root"`
	Extension string `mapstructure:"extension"`
}

// Resolver tunes fuzzy matching.
type Resolver struct {
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"`
	TieMargin      float64 `mapstructure:"tie_margin"`
}

// Report bounds report evaluation.
type Report struct {
	MaxDepth    int `mapstructure:"max_depth"`
	Concurrency int `mapstructure:"concurrency"`
}

// Log selects the log handler.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `mapstructure:"addr"`
}

// NewViper returns a viper instance carrying the defaults and reading
// COOK_ environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyRoot, ".")
	v.SetDefault(KeyExtension, ".cook")
	v.SetDefault(KeyFuzzyThreshold, 0.6)
	v.SetDefault(KeyTieMargin, 0.05)
	v.SetDefault(KeyMaxDepth, 64)
	v.SetDefault(KeyConcurrency, 4)
	v.SetDefault(KeyAisle, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyServerAddr, ":9080")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile loads the configuration file into v. An explicit path must
// exist. Otherwise config/cook.yaml below the recipe root is tried, then
// .cook.yaml in the home directory; finding neither is not an error. It
// returns the file that was read.
func ReadFile(v *viper.Viper, explicit string) (string, error) {
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", explicit, err)
		}
		return v.ConfigFileUsed(), nil
	}

	for _, candidate := range candidates(v.GetString(KeyRoot)) {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		v.SetConfigFile(candidate)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", candidate, err)
		}
		return v.ConfigFileUsed(), nil
	}
	return "", nil
}

func candidates(root string) []string {
	out := []string{filepath.Join(root, "config", "cook.yaml")}
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, ".cook.yaml"))
	}
	return out
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Recipes.Extension != "" && !strings.HasPrefix(cfg.Recipes.Extension, ".") {
		cfg.Recipes.Extension = "." + cfg.Recipes.Extension
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Recipes.Root == "" {
		errs = append(errs, invalid("%s must not be empty", KeyRoot))
	}
	if c.Resolver.FuzzyThreshold <= 0 || c.Resolver.FuzzyThreshold > 1 {
		errs = append(errs, invalid("%s must be in (0, 1], got %v", KeyFuzzyThreshold, c.Resolver.FuzzyThreshold))
	}
	if c.Resolver.TieMargin < 0 {
		errs = append(errs, invalid("%s must not be negative, got %v", KeyTieMargin, c.Resolver.TieMargin))
	}
	if c.Report.MaxDepth <= 0 {
		errs = append(errs, invalid("%s must be positive, got %d", KeyMaxDepth, c.Report.MaxDepth))
	}
	if c.Report.Concurrency <= 0 {
		errs = append(errs, invalid("%s must be positive, got %d", KeyConcurrency, c.Report.Concurrency))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, invalid("%s must be 'debug', 'info', 'warn', or 'error', got %q", KeyLogLevel, c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, invalid("%s must be 'text' or 'json', got %q", KeyLogFormat, c.Log.Format))
	}
	return errors.Join(errs...)
}

// AislePath returns the aisle file to use. An unset path falls back to
// config/aisle.conf below the recipe root when that file exists.
func (c *Config) AislePath() string {
	if c.Aisle != "" {
		return c.Aisle
	}
	fallback := filepath.Join(c.Recipes.Root, "config", "aisle.conf")
	if info, err := os.Stat(fallback); err == nil && !info.IsDir() {
		return fallback
	}
	return ""
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
