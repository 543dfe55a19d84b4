package signals

import (
	"fmt"

	"github.com/Paintersrp/rip/internal/cliutil"
	"github.com/Paintersrp/rip/internal/metrics"
)

// Outcome records the result of signalling one pid.
type Outcome struct {
	PID       int32
	Succeeded bool
	Err       error
}

// Detail returns the failure description, or "" on success.
func (o Outcome) Detail() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// KillFunc delivers sig to pid.
type KillFunc func(pid int32, sig Signal) error

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithKillFunc replaces the platform signal delivery.
func WithKillFunc(fn KillFunc) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.kill = fn
		}
	}
}

// WithLogger records every attempt in the structured log.
func WithLogger(log *cliutil.Logger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// Dispatcher sends signals to processes.
type Dispatcher struct {
	kill KillFunc
	log  *cliutil.Logger
}

// NewDispatcher constructs a dispatcher using the platform's kill(2).
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{kill: deliver}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends sig to every pid in order and returns one outcome per pid,
// in the same order. An empty input yields an empty result.
func (d *Dispatcher) Dispatch(pids []int32, sig Signal) []Outcome {
	outcomes := make([]Outcome, 0, len(pids))
	for _, pid := range pids {
		outcome := Outcome{PID: pid}
		if pid <= 0 {
			outcome.Err = fmt.Errorf("pid %d: %w", pid, ErrInvalidPID)
		} else if err := d.kill(pid, sig); err != nil {
			outcome.Err = err
		} else {
			outcome.Succeeded = true
		}

		if outcome.Succeeded {
			d.log.Process("info", "signals", pid, "sent "+sig.String(), nil)
		} else {
			d.log.Process("error", "signals", pid, "send "+sig.String()+" failed", outcome.Err)
		}
		metrics.ObserveSignal(sig.Name, outcome.Succeeded)
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// Failed returns the outcomes that did not succeed.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if !o.Succeeded {
			failed = append(failed, o)
		}
	}
	return failed
}
