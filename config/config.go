package config

import (
	"errors"
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

const (
	DefaultOutputDir     = "ccr_files"
	DefaultFetchTimeout  = 25 // seconds
	DefaultFetchAttempts = 3
)

var (
	ErrInvalidStartDate     = errors.New("invalid backfill start date")
	ErrInvalidFetchTimeout  = errors.New("invalid fetch timeout")
	ErrInvalidFetchAttempts = errors.New("invalid fetch attempts")
)

// Config defines the collection run configuration
type Config struct {
	// The directory holding the dataset files and the archive
	OutputDir string `toml:"output_dir"`

	// The first date of the backfill range, as YYYY-MM-DD.
	// Empty means collecting today only
	BackfillStart string `toml:"backfill_start"`

	// The per-request fetch timeout, in seconds
	FetchTimeout int `toml:"fetch_timeout_seconds"`

	// The fetch attempt budget per request
	FetchAttempts int `toml:"fetch_attempts"`
}

// DefaultConfig returns the default collection run configuration
func DefaultConfig() *Config {
	return &Config{
		OutputDir:     DefaultOutputDir,
		BackfillStart: "",
		FetchTimeout:  DefaultFetchTimeout,
		FetchAttempts: DefaultFetchAttempts,
	}
}

// ValidateConfig validates the collection run configuration
func ValidateConfig(config *Config) error {
	if config.BackfillStart != "" {
		if _, err := time.Parse("2006-01-02", config.BackfillStart); err != nil {
			return ErrInvalidStartDate
		}
	}

	if config.FetchTimeout <= 0 {
		return ErrInvalidFetchTimeout
	}

	if config.FetchAttempts <= 0 {
		return ErrInvalidFetchAttempts
	}

	return nil
}

// Read reads the configuration from the given path.
// Omitted fields keep their defaults
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	var cfg Config

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, err
	}

	// Fall back to the defaults for omitted fields
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	if cfg.FetchAttempts == 0 {
		cfg.FetchAttempts = DefaultFetchAttempts
	}

	return &cfg, nil
}
