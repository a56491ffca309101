// Package config provides configuration management for strata with Viper integration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	dirPerm = 0o750 // Standard directory permissions (rwxr-x---)
)

// Config represents the complete configuration for strata.
type Config struct {
	Browsing   BrowsingConfig   `mapstructure:"browsing" yaml:"browsing"`
	History    HistoryConfig    `mapstructure:"history" yaml:"history"`
	Search     SearchConfig     `mapstructure:"search" yaml:"search"`
	Summarizer SummarizerConfig `mapstructure:"summarizer" yaml:"summarizer"`
	Favicons   FaviconConfig    `mapstructure:"favicons" yaml:"favicons"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// BrowsingConfig holds tab and space defaults.
type BrowsingConfig struct {
	HomeURL          string `mapstructure:"home_url" yaml:"home_url"`
	DefaultSpaceName string `mapstructure:"default_space_name" yaml:"default_space_name"`
}

// HistoryConfig holds history-related configuration.
type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries"`
}

// SearchConfig holds omnibox search configuration.
type SearchConfig struct {
	EngineName         string        `mapstructure:"engine_name" yaml:"engine_name"`
	EngineURL          string        `mapstructure:"engine_url" yaml:"engine_url"`
	SuggestURL         string        `mapstructure:"suggest_url" yaml:"suggest_url"`
	SuggestionDebounce time.Duration `mapstructure:"suggestion_debounce" yaml:"suggestion_debounce"`
	HistoryWindow      int           `mapstructure:"history_window" yaml:"history_window"`
}

// SummarizerConfig holds page summarization configuration.
type SummarizerConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Model    string `mapstructure:"model" yaml:"model"`
	MaxChars int    `mapstructure:"max_chars" yaml:"max_chars"`
}

// FaviconConfig holds favicon fetching configuration.
type FaviconConfig struct {
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads configuration from the XDG config directory, falling back to
// defaults for any key that is missing. A missing config file is not an error.
func Load() (*Config, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directories: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dirs.ConfigHome)
	v.SetEnvPrefix("STRATA")
	v.AutomaticEnv()

	setDefaults(v, dirs)

	if err := os.MkdirAll(dirs.ConfigHome, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, dirs *XDGDirs) {
	defaults := Defaults(dirs)

	v.SetDefault("browsing.home_url", defaults.Browsing.HomeURL)
	v.SetDefault("browsing.default_space_name", defaults.Browsing.DefaultSpaceName)

	v.SetDefault("history.max_entries", defaults.History.MaxEntries)

	v.SetDefault("search.engine_name", defaults.Search.EngineName)
	v.SetDefault("search.engine_url", defaults.Search.EngineURL)
	v.SetDefault("search.suggest_url", defaults.Search.SuggestURL)
	v.SetDefault("search.suggestion_debounce", defaults.Search.SuggestionDebounce)
	v.SetDefault("search.history_window", defaults.Search.HistoryWindow)

	v.SetDefault("summarizer.host", defaults.Summarizer.Host)
	v.SetDefault("summarizer.model", defaults.Summarizer.Model)
	v.SetDefault("summarizer.max_chars", defaults.Summarizer.MaxChars)

	v.SetDefault("favicons.cache_dir", defaults.Favicons.CacheDir)

	v.SetDefault("database.path", defaults.Database.Path)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
}

// DatabasePath returns the resolved database path, creating its directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path == "" {
		return "", fmt.Errorf("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(c.Database.Path), dirPerm); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return c.Database.Path, nil
}
