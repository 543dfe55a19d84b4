package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Paintersrp/rip/internal/cliutil"
	"github.com/Paintersrp/rip/internal/metrics"
	"github.com/Paintersrp/rip/internal/snapshot"
)

const (
	defaultInterval        = 2 * time.Second
	defaultSnapshotTimeout = 5 * time.Second
)

// Renderer receives view models. Render is called from the loop goroutine
// after every handled event and must not block for long.
type Renderer interface {
	Render(ViewModel)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ViewModel)

// Render implements Renderer.
func (f RendererFunc) Render(vm ViewModel) {
	f(vm)
}

// TickerFunc returns a tick channel and a function that stops it.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithInterval sets the refresh interval used in Live mode.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithSnapshotTimeout bounds every background fetch.
func WithSnapshotTimeout(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger records refresh failures.
func WithLogger(log *cliutil.Logger) LoopOption {
	return func(l *Loop) {
		l.log = log
	}
}

// WithTicker replaces the refresh ticker.
func WithTicker(fn TickerFunc) LoopOption {
	return func(l *Loop) {
		if fn != nil {
			l.ticker = fn
		}
	}
}

// Loop is the single-threaded event loop. Each turn pops exactly one event
// (a key, a refresh tick or a snapshot result), resolves it completely and
// redraws before the next one is read.
type Loop struct {
	session  *Session
	provider snapshot.Provider
	renderer Renderer
	mode     Mode

	interval time.Duration
	timeout  time.Duration
	log      *cliutil.Logger
	ticker   TickerFunc

	applied uint64
}

// NewLoop wires a session to a snapshot provider and a renderer.
func NewLoop(session *Session, provider snapshot.Provider, renderer Renderer, mode Mode, opts ...LoopOption) *Loop {
	l := &Loop{
		session:  session,
		provider: provider,
		renderer: renderer,
		mode:     mode,
		interval: defaultInterval,
		timeout:  defaultSnapshotTimeout,
		ticker:   newTimeTicker,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func newTimeTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Prime takes the initial snapshot synchronously. Failing to read any
// snapshot at startup is fatal for the caller, so the error is returned
// rather than logged.
func (l *Loop) Prime(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	raw, err := l.provider.Snapshot(ctx)
	if err != nil {
		metrics.IncSnapshotError()
		return fmt.Errorf("initial snapshot: %w", err)
	}
	metrics.ObserveSnapshot(time.Since(start), len(raw.Processes))
	l.session.ApplySnapshot(raw)
	return nil
}

// Run processes key presses and, in Live mode, periodic refreshes until the
// session is confirmed or cancelled. Cancelling ctx or closing keys cancels
// the session. Pending key presses are always handled before a refresh so
// input stays responsive.
func (l *Loop) Run(ctx context.Context, keys <-chan Key) Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := NewScheduler(l.provider, l.timeout)
	defer sched.Stop()

	var tick <-chan time.Time
	if l.mode == Live {
		var stop func()
		tick, stop = l.ticker(l.interval)
		defer stop()
		l.log.Info("scheduler", "live refresh every "+l.interval.String())
	}

	l.render()
	for !l.session.Done() {
		if l.drainKeys(keys) {
			break
		}
		if l.session.Done() {
			break
		}

		select {
		case <-ctx.Done():
			l.session.Cancel()
		case k, ok := <-keys:
			if !ok {
				l.session.Cancel()
				break
			}
			l.session.HandleKey(k)
		case res := <-sched.resultsChan():
			sched.complete()
			l.apply(res)
		case <-tick:
			sched.Trigger(ctx)
			continue
		}
		l.render()
	}

	sched.Stop()
	return l.session.Result()
}

// drainKeys handles every key press already queued. It reports whether the
// key channel was closed.
func (l *Loop) drainKeys(keys <-chan Key) bool {
	handled := false
	defer func() {
		if handled {
			l.render()
		}
	}()
	for !l.session.Done() {
		select {
		case k, ok := <-keys:
			if !ok {
				l.session.Cancel()
				handled = true
				return true
			}
			l.session.HandleKey(k)
			handled = true
		default:
			return false
		}
	}
	return false
}

func (l *Loop) apply(res snapshotResult) {
	if res.seq <= l.applied {
		return
	}
	l.applied = res.seq
	if res.err != nil {
		metrics.IncSnapshotError()
		l.log.Warn("scheduler", "refresh failed, keeping previous view", res.err)
		l.session.SnapshotFailed()
		return
	}
	metrics.ObserveSnapshot(res.took, len(res.raw.Processes))
	l.session.ApplySnapshot(res.raw)
}

func (l *Loop) render() {
	if l.renderer != nil {
		l.renderer.Render(l.session.View())
	}
}

// SetRenderer replaces the renderer. It must be called before Run.
func (l *Loop) SetRenderer(r Renderer) {
	l.renderer = r
}
