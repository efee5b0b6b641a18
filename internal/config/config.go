// Package config loads server and CLI settings.
//
// Values are resolved in increasing precedence: built-in defaults, the YAML
// file named by IMAGE_GRID_CONFIG, a .env file in the working directory, and
// finally the process environment. Variables already set in the environment
// are never overwritten by .env.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvConfigFile    = "IMAGE_GRID_CONFIG"
	EnvLogLevel      = "IMAGE_GRID_LOG_LEVEL"
	EnvLogFile       = "IMAGE_GRID_LOG_FILE"
	EnvOverviewBins  = "IMAGE_GRID_OVERVIEW_BINS"
	EnvDetailBins    = "IMAGE_GRID_DETAIL_BINS"
	EnvThumbnailSize = "IMAGE_GRID_THUMBNAIL_SIZE"
	EnvWorkers       = "IMAGE_GRID_WORKERS"
	EnvCacheEntries  = "IMAGE_GRID_CACHE_ENTRIES"
)

// ErrInvalidConfig is returned for malformed or out-of-range settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the resolved settings.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// LogFile enables a rotating JSON log at this path when non-empty.
	LogFile string `yaml:"log_file"`

	// OverviewBins is the histogram bin count for whole-grid analysis.
	OverviewBins int `yaml:"overview_bins"`

	// DetailBins is the histogram bin count for single-cell detail.
	DetailBins int `yaml:"detail_bins"`

	// ThumbnailSize is the edge length of cell thumbnails in pixels.
	ThumbnailSize int `yaml:"thumbnail_size"`

	// Workers bounds how many cells are analyzed in parallel.
	Workers int `yaml:"workers"`

	// CacheEntries bounds the number of memoized grid analyses.
	CacheEntries int `yaml:"cache_entries"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		OverviewBins:  16,
		DetailBins:    32,
		ThumbnailSize: 64,
		Workers:       runtime.NumCPU(),
		CacheEntries:  64,
	}
}

// Load resolves the configuration using ".env" in the working directory.
func Load() (*Config, error) {
	return LoadWithEnvFile(".env")
}

// LoadWithEnvFile is Load with an explicit dotenv path. A missing dotenv file
// is not an error.
func LoadWithEnvFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookupEnv(EnvLogFile); ok {
		c.LogFile = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvOverviewBins, &c.OverviewBins},
		{EnvDetailBins, &c.DetailBins},
		{EnvThumbnailSize, &c.ThumbnailSize},
		{EnvWorkers, &c.Workers},
		{EnvCacheEntries, &c.CacheEntries},
	}
	for _, f := range ints {
		v, ok := lookupEnv(f.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, f.key, v)
		}
		*f.dst = n
	}
	return nil
}

// lookupEnv treats variables set to whitespace as unset.
func lookupEnv(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"overview_bins", c.OverviewBins},
		{"detail_bins", c.DetailBins},
		{"thumbnail_size", c.ThumbnailSize},
		{"workers", c.Workers},
		{"cache_entries", c.CacheEntries},
	}
	for _, chk := range checks {
		if chk.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, chk.name, chk.value)
		}
	}
	if c.ThumbnailSize > maxThumbnailSize {
		return fmt.Errorf("%w: thumbnail_size must be at most %d, got %d",
			ErrInvalidConfig, maxThumbnailSize, c.ThumbnailSize)
	}
	return nil
}

// maxThumbnailSize mirrors imaging.MaxThumbnailSize.
const maxThumbnailSize = 1024
