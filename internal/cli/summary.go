package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/rip/internal/signals"
	"github.com/Paintersrp/rip/internal/snapshot"
)

type summaryStyles struct {
	ok   lipgloss.Style
	fail lipgloss.Style
	name lipgloss.Style
	dim  lipgloss.Style
}

// newSummaryStyles binds styles to w so colour is only emitted when w is a
// terminal and NO_COLOR is unset.
func newSummaryStyles(w io.Writer) summaryStyles {
	r := lipgloss.NewRenderer(w)
	return summaryStyles{
		ok:   r.NewStyle().Foreground(lipgloss.Color("2")),
		fail: r.NewStyle().Foreground(lipgloss.Color("1")),
		name: r.NewStyle().Bold(true),
		dim:  r.NewStyle().Faint(true),
	}
}

// printSummary writes one line per outcome: successes to stdout, failures
// with their cause to stderr.
func printSummary(stdout, stderr io.Writer, outcomes []signals.Outcome, entities map[int32]snapshot.Entity) {
	okStyles := newSummaryStyles(stdout)
	failStyles := newSummaryStyles(stderr)

	for _, o := range outcomes {
		name := "?"
		if e, ok := entities[o.PID]; ok && e.Name != "" {
			name = e.Name
		}
		pid := fmt.Sprintf("(PID: %d)", o.PID)
		if o.Succeeded {
			fmt.Fprintf(stdout, "%s %s %s\n",
				okStyles.ok.Render("Killed"),
				okStyles.name.Render(name),
				okStyles.dim.Render(pid))
			continue
		}
		fmt.Fprintf(stderr, "%s %s %s: %s\n",
			failStyles.fail.Render("Failed"),
			failStyles.name.Render(name),
			failStyles.dim.Render(pid),
			o.Detail())
	}
}
