package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/Paintersrp/rip/internal/cliutil"
	"github.com/Paintersrp/rip/internal/engine"
	"github.com/Paintersrp/rip/internal/exitcode"
	"github.com/Paintersrp/rip/internal/metrics"
	"github.com/Paintersrp/rip/internal/signals"
	"github.com/Paintersrp/rip/internal/snapshot"
)

func run(ctx context.Context, d deps, s settings) error {
	if !d.isTerminal() {
		return exitcode.New(exitcode.ErrSetup, "rip needs an interactive terminal")
	}

	log, err := cliutil.OpenLogFile(s.LogFile)
	if err != nil {
		return exitcode.Setup("open log file", err)
	}
	defer log.Close()
	defer writeMetrics(s.MetricsFile, log, d.stderr)

	mode := engine.Idle
	if s.Live {
		mode = engine.Live
	}
	log.Info("cli", fmt.Sprintf("starting mode=%s signal=%s sort=%s ports=%t", mode, s.Signal, s.Sort, s.Ports))

	session := engine.NewSession(engine.SessionConfig{
		Query: s.Filter,
		Sort:  s.Sort,
		Normalize: snapshot.Options{
			Ports:        s.Ports,
			HidePortless: s.HidePortless,
			Port:         s.Port,
		},
		Live: s.Live,
	})
	loop := engine.NewLoop(session, d.provider(s, log), nil, mode,
		engine.WithInterval(s.Interval),
		engine.WithSnapshotTimeout(s.SnapshotTimeout),
		engine.WithLogger(log),
	)

	if err := loop.Prime(ctx); err != nil {
		log.Error("cli", "initial snapshot failed", err)
		return exitcode.Setup("cannot read the process list", err)
	}
	if !s.Live && session.View().Total == 0 {
		fmt.Fprintln(d.stdout, "No processes found")
		return nil
	}

	res, err := d.interact(ctx, loop, s)
	if err != nil {
		return exitcode.Setup("terminal ui", err)
	}
	if res.Status != engine.StatusConfirmed || len(res.PIDs) == 0 {
		log.Info("cli", "nothing selected, status "+string(res.Status))
		fmt.Fprintln(d.stdout, "No processes selected")
		return nil
	}

	dispatcher := signals.NewDispatcher(signals.WithLogger(log), signals.WithKillFunc(d.kill))
	outcomes := dispatcher.Dispatch(res.PIDs, s.Signal)
	printSummary(d.stdout, d.stderr, outcomes, res.Entities)

	if failed := signals.Failed(outcomes); len(failed) > 0 {
		return exitcode.Newf(exitcode.ErrSignalFailed, "%d of %d signals failed", len(failed), len(outcomes))
	}
	return nil
}

func newProvider(s settings, log *cliutil.Logger) snapshot.Provider {
	system := snapshot.NewSystem(snapshot.SystemOptions{
		Ports:     s.Ports || s.Port != 0,
		CPUSample: s.CPUSample,
	})
	if !s.Containers {
		return system
	}
	return snapshot.Merge(system, log, snapshot.NewContainers())
}

func writeMetrics(path string, log *cliutil.Logger, stderr io.Writer) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		log.Warn("metrics", "write textfile failed", err)
		fmt.Fprintf(stderr, "warning: write metrics: %v\n", err)
	}
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
