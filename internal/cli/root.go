package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/rip/internal/cliutil"
	"github.com/Paintersrp/rip/internal/engine"
	"github.com/Paintersrp/rip/internal/exitcode"
	"github.com/Paintersrp/rip/internal/metrics"
	"github.com/Paintersrp/rip/internal/signals"
	"github.com/Paintersrp/rip/internal/snapshot"
	"github.com/Paintersrp/rip/internal/tui"
)

// deps are the collaborators a run needs. Tests replace them with fakes.
type deps struct {
	stdout     io.Writer
	stderr     io.Writer
	isTerminal func() bool
	provider   func(settings, *cliutil.Logger) snapshot.Provider
	interact   func(ctx context.Context, loop *engine.Loop, s settings) (engine.Result, error)
	kill       signals.KillFunc
}

func defaultDeps() deps {
	return deps{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		isTerminal: isInteractive,
		provider:   newProvider,
		interact:   runTUI,
	}
}

func NewRootCmd() *cobra.Command {
	return newRootCommand(defaultDeps())
}

func newRootCommand(d deps) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "rip",
		Short: "Fuzzy-find processes and ports, then signal them",
		Long: `rip lists running processes, lets you narrow them with a fuzzy query,
select any number of them and sends a signal (SIGKILL by default) to the
selection. With --ports the list shows listening TCP/UDP ports and the
query also matches port numbers.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return exitcode.Usage(fmt.Errorf("unexpected argument %q (use --filter)", args[0]))
			}
			return nil
		},
		Version: metrics.Version(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), d, s)
		},
	}

	opts.register(root.Flags())

	root.SetOut(d.stdout)
	root.SetErr(d.stderr)
	root.SetVersionTemplate("rip {{.Version}}\n")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exitcode.Usage(err)
	})

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root
}

// Execute runs the CLI entrypoint.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetContext(ctx)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(exitcode.Code(err))
}

func runTUI(ctx context.Context, loop *engine.Loop, s settings) (engine.Result, error) {
	ui := tui.New(tui.WithSignal(s.Signal.String()))
	loop.SetRenderer(ui)
	return ui.Run(ctx, loop)
}
