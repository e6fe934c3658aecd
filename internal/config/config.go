// Package config loads ytstreams settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "YTSTREAMS_"

// Config holds client, store and watch settings.
type Config struct {
	BaseURL   string // YouTube origin; overridden in tests
	ConfigDir string // e.g. ~/.config/ytstreams
	DBPath    string // seen-stream database; defaults to ConfigDir/seen.db

	RequestTimeout    time.Duration
	RequestsPerSecond float64 // 0 = no pacing
	FirstPageAttempts int
	FirstPageInterval time.Duration
	// LiveEarlyStop stops live and upcoming listings at the first stream past
	// their group. It assumes the channel lists upcoming, live, then past.
	LiveEarlyStop bool

	MetricsAddr  string // watch only; "" = no metrics endpoint
	PollInterval time.Duration
}

// LoadDotEnv loads KEY=value files into the environment. Missing files are
// skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(filepath.Clean(path)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the configuration from YTSTREAMS_* environment variables.
func Load() *Config {
	configDir := getEnv("CONFIG_DIR", defaultConfigDir())
	return &Config{
		BaseURL:           strings.TrimRight(getEnv("BASE_URL", "https://www.youtube.com"), "/"),
		ConfigDir:         configDir,
		DBPath:            getEnv("DB_PATH", filepath.Join(configDir, "seen.db")),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		RequestsPerSecond: getEnvFloat("REQUESTS_PER_SECOND", 2),
		FirstPageAttempts: getEnvInt("FIRST_PAGE_ATTEMPTS", 6),
		FirstPageInterval: getEnvDuration("FIRST_PAGE_INTERVAL", 0),
		LiveEarlyStop:     getEnvBool("LIVE_EARLY_STOP", true),
		MetricsAddr:       getEnv("METRICS_ADDR", ""),
		PollInterval:      getEnvDuration("POLL_INTERVAL", 5*time.Minute),
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%sBASE_URL must not be empty", envPrefix))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%sREQUEST_TIMEOUT must be positive, got %s", envPrefix, c.RequestTimeout))
	}
	if c.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("%sREQUESTS_PER_SECOND must not be negative, got %g", envPrefix, c.RequestsPerSecond))
	}
	if c.FirstPageAttempts < 1 {
		errs = append(errs, fmt.Errorf("%sFIRST_PAGE_ATTEMPTS must be at least 1, got %d", envPrefix, c.FirstPageAttempts))
	}
	if c.PollInterval < time.Second {
		errs = append(errs, fmt.Errorf("%sPOLL_INTERVAL must be at least 1s, got %s", envPrefix, c.PollInterval))
	}
	return errors.Join(errs...)
}

func defaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ytstreams")
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(envPrefix + key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(envPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := strings.TrimSpace(os.Getenv(envPrefix + key))
	switch strings.ToLower(v) {
	case "":
		return defaultVal
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(envPrefix + key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return defaultVal
}
