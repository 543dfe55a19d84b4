package config

import (
	"fmt"
	"time"

	"github.com/Paintersrp/rip/internal/rank"
	"github.com/Paintersrp/rip/internal/signals"
)

const minInterval = 100 * time.Millisecond

// Validate checks a config after defaults have been applied.
func (c *Config) Validate() error {
	if _, err := signals.ParseSignal(c.Signal); err != nil {
		return fmt.Errorf("signal: %w", err)
	}
	if _, err := rank.ParseSortField(c.Sort); err != nil {
		return fmt.Errorf("sort: %w", err)
	}
	if c.Interval.Duration < minInterval {
		return fmt.Errorf("interval: must be at least %s, got %s", minInterval, c.Interval.Duration)
	}
	if c.SnapshotTimeout.Duration <= 0 {
		return fmt.Errorf("snapshot_timeout: must be positive, got %s", c.SnapshotTimeout.Duration)
	}
	if c.CPUSample.Duration < 0 {
		return fmt.Errorf("cpu_sample: must not be negative, got %s", c.CPUSample.Duration)
	}
	if c.CPUSample.Duration >= c.SnapshotTimeout.Duration {
		return fmt.Errorf("cpu_sample: %s must be shorter than snapshot_timeout %s", c.CPUSample.Duration, c.SnapshotTimeout.Duration)
	}
	return nil
}
