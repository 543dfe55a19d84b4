package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration for YAML unmarshalling.
type Duration struct {
	time.Duration
	explicit bool
}

// UnmarshalText parses a textual duration, accepting empty strings.
func (d *Duration) UnmarshalText(text []byte) error {
	d.explicit = true
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = dur
	return nil
}

// MarshalText renders the duration using time.Duration formatting.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// IsSet reports whether the duration was explicitly provided or non-zero.
func (d Duration) IsSet() bool {
	return d.explicit || d.Duration != 0
}

// Config mirrors the config.yaml document.
type Config struct {
	Signal          string   `yaml:"signal"`
	Sort            string   `yaml:"sort"`
	Live            bool     `yaml:"live"`
	Interval        Duration `yaml:"interval"`
	Ports           bool     `yaml:"ports"`
	HidePortless    *bool    `yaml:"hide_portless"`
	Containers      bool     `yaml:"containers"`
	SnapshotTimeout Duration `yaml:"snapshot_timeout"`
	CPUSample       Duration `yaml:"cpu_sample"`
	LogFile         string   `yaml:"log_file"`
	MetricsFile     string   `yaml:"metrics_file"`
}

const (
	DefaultSignal          = "SIGKILL"
	DefaultSort            = "cpu"
	DefaultInterval        = 2 * time.Second
	DefaultSnapshotTimeout = 5 * time.Second
	DefaultCPUSample       = 200 * time.Millisecond
)

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Signal == "" {
		c.Signal = DefaultSignal
	}
	if c.Sort == "" {
		c.Sort = DefaultSort
	}
	if !c.Interval.IsSet() {
		c.Interval.Duration = DefaultInterval
	}
	if !c.SnapshotTimeout.IsSet() {
		c.SnapshotTimeout.Duration = DefaultSnapshotTimeout
	}
	if !c.CPUSample.IsSet() {
		c.CPUSample.Duration = DefaultCPUSample
	}
	if c.HidePortless == nil {
		hide := true
		c.HidePortless = &hide
	}
}

// HidesPortless reports whether processes without listening ports are hidden
// in ports mode.
func (c *Config) HidesPortless() bool {
	return c.HidePortless == nil || *c.HidePortless
}
