package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration: environment variables first,
// then a YAML file overlay, then defaults.
type Config struct {
	Library     LibraryConfig     `yaml:"library"`
	Scan        ScanConfig        `yaml:"scan"`
	Entitlement EntitlementConfig `yaml:"entitlement"`
	Archive     ArchiveConfig     `yaml:"archive"`
	Logging     LogConfig         `yaml:"logging"`
}

// LibraryConfig points at the media store.
type LibraryConfig struct {
	Root        string `yaml:"root"`        // directory standing in for the device library
	Concurrency int    `yaml:"concurrency"` // deletion workers, default 4
}

// ScanConfig bounds enumeration and the metadata fan-out.
type ScanConfig struct {
	Limit       int           `yaml:"limit"`       // raw assets per load, default 200
	Concurrency int           `yaml:"concurrency"` // parallel metadata lookups, default 4
	RetryMax    int           `yaml:"retry_max"`   // metadata attempts, default 3
	RetryDelay  time.Duration `yaml:"retry_delay"` // backoff base, default 100ms
	Timeout     time.Duration `yaml:"timeout"`     // per collaborator call, default 5s
}

// EntitlementConfig seeds the static subscription store.
type EntitlementConfig struct {
	Premium bool `yaml:"premium"`
}

// ArchiveConfig controls the pre-deletion backup.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug / info / warn / error
	Format string `yaml:"format"` // console / json
}

// Load resolves the configuration. Priority: YAML file (if present) over
// environment variables over defaults.
func Load(path string) *Config {
	cfg := &Config{
		Library: LibraryConfig{
			Root:        envOr("MEDIASWEEP_LIBRARY_ROOT", ""),
			Concurrency: intOr("MEDIASWEEP_LIBRARY_CONCURRENCY", 4),
		},
		Scan: ScanConfig{
			Limit:       intOr("MEDIASWEEP_SCAN_LIMIT", 200),
			Concurrency: intOr("MEDIASWEEP_SCAN_CONCURRENCY", 4),
			RetryMax:    intOr("MEDIASWEEP_SCAN_RETRY_MAX", 3),
			RetryDelay:  durationOr("MEDIASWEEP_SCAN_RETRY_DELAY", 100*time.Millisecond),
			Timeout:     durationOr("MEDIASWEEP_SCAN_TIMEOUT", 5*time.Second),
		},
		Entitlement: EntitlementConfig{
			Premium: boolOr("MEDIASWEEP_PREMIUM", false),
		},
		Archive: ArchiveConfig{
			Enabled: boolOr("MEDIASWEEP_ARCHIVE_ENABLED", false),
			Dir:     envOr("MEDIASWEEP_ARCHIVE_DIR", ""),
		},
		Logging: LogConfig{
			Level:  envOr("MEDIASWEEP_LOG_LEVEL", "info"),
			Format: envOr("MEDIASWEEP_LOG_FORMAT", "console"),
		},
	}

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	return cfg
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func intOr(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func boolOr(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func durationOr(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
