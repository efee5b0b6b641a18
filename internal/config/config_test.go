package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// clearEnv unsets every config variable for the duration of the test.
// godotenv only fills variables that are absent, so they must be unset
// rather than empty.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigFile, EnvLogLevel, EnvLogFile, EnvOverviewBins, EnvDetailBins,
		EnvThumbnailSize, EnvWorkers, EnvCacheEntries,
	} {
		t.Setenv(key, "") // restores the original value on cleanup
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %s, want info", cfg.LogLevel)
	}
	if cfg.OverviewBins != 16 || cfg.DetailBins != 32 {
		t.Errorf("bins: got %d/%d, want 16/32", cfg.OverviewBins, cfg.DetailBins)
	}
	if cfg.ThumbnailSize != 64 {
		t.Errorf("ThumbnailSize: got %d, want 64", cfg.ThumbnailSize)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers: got %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.CacheEntries != 64 {
		t.Errorf("CacheEntries: got %d, want 64", cfg.CacheEntries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_NoSources(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadWithEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v, want defaults", *cfg)
	}
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "grid.yaml", "log_level: debug\noverview_bins: 8\nworkers: 2\n")
	t.Setenv(EnvConfigFile, path)

	cfg, err := LoadWithEnvFile("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.OverviewBins != 8 || cfg.Workers != 2 {
		t.Errorf("YAML values not applied: %+v", *cfg)
	}
	if cfg.DetailBins != 32 {
		t.Errorf("unset key should keep default, DetailBins=%d", cfg.DetailBins)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "grid.yaml", "detail_bins: 64\nthumbnail_size: 32\n")
	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvDetailBins, "128")

	cfg, err := LoadWithEnvFile("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DetailBins != 128 {
		t.Errorf("DetailBins: got %d, want 128 from env", cfg.DetailBins)
	}
	if cfg.ThumbnailSize != 32 {
		t.Errorf("ThumbnailSize: got %d, want 32 from YAML", cfg.ThumbnailSize)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "IMAGE_GRID_CACHE_ENTRIES=5\nIMAGE_GRID_LOG_FILE=/tmp/grid.log\n")

	cfg, err := LoadWithEnvFile(envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CacheEntries != 5 {
		t.Errorf("CacheEntries: got %d, want 5", cfg.CacheEntries)
	}
	if cfg.LogFile != "/tmp/grid.log" {
		t.Errorf("LogFile: got %q, want /tmp/grid.log", cfg.LogFile)
	}
}

func TestLoad_EnvBeatsDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWorkers, "3")
	envFile := writeFile(t, ".env", "IMAGE_GRID_WORKERS=9\n")

	cfg, err := LoadWithEnvFile(envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers: got %d, want 3", cfg.Workers)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"not an integer", EnvOverviewBins, "sixteen"},
		{"zero workers", EnvWorkers, "0"},
		{"negative thumbnail", EnvThumbnailSize, "-1"},
		{"oversized thumbnail", EnvThumbnailSize, "1025"},
		{"zero cache", EnvCacheEntries, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadWithEnvFile("")
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, writeFile(t, "bad.yaml", "overview_bins: [1, 2\n"))

	if _, err := LoadWithEnvFile(""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_MissingYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, "/nonexistent/grid.yaml")

	if _, err := LoadWithEnvFile(""); err == nil {
		t.Error("expected error for missing config file")
	}
}
