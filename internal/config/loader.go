package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configEnv      = "RIP_CONFIG"
	signalEnv      = "RIP_SIGNAL"
	sortEnv        = "RIP_SORT"
	intervalEnv    = "RIP_INTERVAL"
	logFileEnv     = "RIP_LOG_FILE"
	metricsFileEnv = "RIP_METRICS_FILE"
)

// Load reads a config document from the provided path. Defaults are not
// applied.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: decode: %w", absPath, err)
	}

	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.MetricsFile = expandPath(cfg.MetricsFile)
	return &cfg, nil
}

// Resolve locates the config file. An explicit path or $RIP_CONFIG must
// exist; the per-user default may be missing, in which case an empty
// config is returned.
func Resolve(explicit string) (*Config, string, error) {
	path := strings.TrimSpace(explicit)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(configEnv))
	}
	if path != "" {
		cfg, err := Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	path = DefaultPath()
	if path == "" {
		return &Config{}, "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, "", nil
		}
		return nil, "", err
	}
	return cfg, path, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/rip/config.yaml, or the platform's
// user config directory equivalent. It is empty when no home is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, "rip", "config.yaml")
}

// ApplyEnv overrides fields from RIP_* environment variables. Unparseable
// durations are ignored.
func (c *Config) ApplyEnv() {
	if value := strings.TrimSpace(os.Getenv(signalEnv)); value != "" {
		c.Signal = value
	}
	if value := strings.TrimSpace(os.Getenv(sortEnv)); value != "" {
		c.Sort = value
	}
	if value := os.Getenv(intervalEnv); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			c.Interval = Duration{Duration: d, explicit: true}
		}
	}
	if value := os.Getenv(logFileEnv); value != "" {
		c.LogFile = expandPath(value)
	}
	if value := os.Getenv(metricsFileEnv); value != "" {
		c.MetricsFile = expandPath(value)
	}
}

func expandPath(path string) string {
	path = os.ExpandEnv(strings.TrimSpace(path))
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
