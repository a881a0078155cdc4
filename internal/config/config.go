// Package config provides configuration and path management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "countrypick"

	// EnvPrefix prefixes environment overrides (COUNTRYPICK_SEARCH_THRESHOLD).
	EnvPrefix = "COUNTRYPICK"

	// ConfigEnv names the environment variable holding an explicit config path.
	ConfigEnv = "COUNTRYPICK_CONFIG"

	// ConfigFileName is the config file name inside the config directory.
	ConfigFileName = "config.toml"

	// DataDirName is the data directory name under the home directory.
	DataDirName = ".countrypick"

	// CatalogDBFileName is the default SQLite catalog file name.
	CatalogDBFileName = "catalog.db"

	// DefaultConcurrency is the default batch concurrency.
	DefaultConcurrency = 8

	// MaxConcurrency is the maximum allowed batch concurrency.
	MaxConcurrency = 64

	// DefaultRowHeight is the terminal picker's row height in lines.
	DefaultRowHeight = 1

	// DefaultHeight is the terminal picker's list height in rows.
	DefaultHeight = 12

	// DefaultSuggestions is how many "did you mean" codes are offered.
	DefaultSuggestions = 3
)

// Config holds runtime configuration.
type Config struct {
	Locale  string
	Exclude []string
	Catalog CatalogConfig
	Flags   FlagsConfig
	Search  SearchConfig
	Batch   BatchConfig
	UI      UIConfig
	Log     LogConfig
}

// CatalogConfig selects the catalog source. An empty Path and DB mean the
// embedded catalog.
type CatalogConfig struct {
	Path string
	DB   string
}

// FlagsConfig selects the flag capability of the loaded catalog.
type FlagsConfig struct {
	Style     string
	ImageBase string `mapstructure:"image_base"`
}

// SearchConfig tunes the fuzzy matcher.
type SearchConfig struct {
	Threshold        float64
	Distance         int
	MaxPatternLength int `mapstructure:"max_pattern_length"`
}

// BatchConfig holds batch resolution settings.
type BatchConfig struct {
	Concurrency int
}

// UIConfig holds terminal picker settings.
type UIConfig struct {
	RowHeight int `mapstructure:"row_height"`
	Height    int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load reads configuration from defaults, the config file and the
// environment. An explicit path (argument or COUNTRYPICK_CONFIG) must exist;
// the default location is optional.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("locale", "")
	v.SetDefault("exclude", []string{})
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.db", "")
	v.SetDefault("flags.style", "emoji")
	v.SetDefault("flags.image_base", "flags")
	v.SetDefault("search.threshold", 0.6)
	v.SetDefault("search.distance", 100)
	v.SetDefault("search.max_pattern_length", 32)
	v.SetDefault("batch.concurrency", DefaultConcurrency)
	v.SetDefault("ui.row_height", DefaultRowHeight)
	v.SetDefault("ui.height", DefaultHeight)
	v.SetDefault("log.level", "warn")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultConfigDir())
		v.SetConfigName(strings.TrimSuffix(ConfigFileName, ".toml"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("search.threshold must be between 0 and 1, got %v", c.Search.Threshold)
	}
	if c.Search.Distance < 0 {
		return fmt.Errorf("search.distance must not be negative, got %d", c.Search.Distance)
	}
	if c.Search.MaxPatternLength < 1 || c.Search.MaxPatternLength > 64 {
		return fmt.Errorf("search.max_pattern_length must be between 1 and 64, got %d", c.Search.MaxPatternLength)
	}
	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > MaxConcurrency {
		return fmt.Errorf("batch.concurrency must be between 1 and %d, got %d", MaxConcurrency, c.Batch.Concurrency)
	}
	if c.UI.RowHeight < 1 || c.UI.Height < 1 {
		return fmt.Errorf("ui.row_height and ui.height must be positive")
	}
	return nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/countrypick or the platform equivalent.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to current directory
		dir = "."
	}
	return filepath.Join(dir, AppName)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFileName)
}

// DefaultDataDir returns the default data directory path.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, DataDirName)
}

// DefaultCatalogDBPath returns the default SQLite catalog path.
func DefaultCatalogDBPath() string {
	return filepath.Join(DefaultDataDir(), CatalogDBFileName)
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
