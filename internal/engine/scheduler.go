package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Paintersrp/rip/internal/snapshot"
)

// Mode selects whether the process list refreshes.
type Mode int

const (
	// Idle shows the initial snapshot only.
	Idle Mode = iota
	// Live re-snapshots on a fixed interval.
	Live
)

func (m Mode) String() string {
	if m == Live {
		return "live"
	}
	return "idle"
}

// Scheduler runs at most one snapshot fetch at a time off the interaction
// goroutine and hands each result back through a channel. It is driven from a
// single goroutine.
type Scheduler struct {
	provider snapshot.Provider
	timeout  time.Duration

	results  chan snapshotResult
	seq      uint64
	inflight bool
	cancel   context.CancelFunc
	stopped  bool
}

// NewScheduler constructs a scheduler. Every fetch is bounded by timeout.
func NewScheduler(provider snapshot.Provider, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = defaultSnapshotTimeout
	}
	return &Scheduler{
		provider: provider,
		timeout:  timeout,
		results:  make(chan snapshotResult, 1),
	}
}

func (s *Scheduler) resultsChan() <-chan snapshotResult {
	return s.results
}

// Trigger starts a background fetch unless one is already running or the
// scheduler was stopped. It reports whether a fetch was started.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if s.stopped || s.inflight {
		return false
	}
	s.seq++
	s.inflight = true

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	s.cancel = cancel
	go s.fetch(fetchCtx, s.seq)
	return true
}

// complete marks the in-flight fetch as consumed.
func (s *Scheduler) complete() {
	s.inflight = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Stop cancels any in-flight fetch and prevents further triggers. A result
// still being produced is dropped into the buffered channel and never read.
func (s *Scheduler) Stop() {
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler) fetch(ctx context.Context, seq uint64) {
	start := time.Now()
	done := make(chan snapshotResult, 1)
	go func() {
		raw, err := s.provider.Snapshot(ctx)
		done <- snapshotResult{seq: seq, raw: raw, err: err}
	}()

	// A provider that ignores its context must not stall refreshes; give up
	// on it once the deadline passes and let the next tick retry.
	var res snapshotResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = snapshotResult{seq: seq, err: fmt.Errorf("snapshot: %w", ctx.Err())}
	}
	res.took = time.Since(start)
	s.results <- res
}
