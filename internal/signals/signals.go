// Package signals parses signal names and delivers a signal to a set of pids,
// recording one outcome per pid. A failure on one pid never stops delivery to
// the others, and nothing is retried.
package signals

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Signal identifies a POSIX signal by name and number.
type Signal struct {
	Name   string
	Number int
}

func (s Signal) String() string {
	return "SIG" + s.Name
}

var (
	SIGHUP  = Signal{Name: "HUP", Number: 1}
	SIGINT  = Signal{Name: "INT", Number: 2}
	SIGQUIT = Signal{Name: "QUIT", Number: 3}
	SIGKILL = Signal{Name: "KILL", Number: 9}
	SIGUSR1 = Signal{Name: "USR1", Number: 10}
	SIGUSR2 = Signal{Name: "USR2", Number: 12}
	SIGTERM = Signal{Name: "TERM", Number: 15}
	SIGCONT = Signal{Name: "CONT", Number: 18}
	SIGSTOP = Signal{Name: "STOP", Number: 19}
)

// Default is sent when no signal is configured.
var Default = SIGKILL

var known = []Signal{SIGHUP, SIGINT, SIGQUIT, SIGKILL, SIGUSR1, SIGUSR2, SIGTERM, SIGCONT, SIGSTOP}

var (
	// ErrNoSuchProcess reports that the pid no longer exists.
	ErrNoSuchProcess = errors.New("no such process")
	// ErrPermission reports that the caller may not signal the pid.
	ErrPermission = errors.New("operation not permitted")
	// ErrInvalidPID reports a pid that must never be signalled, such as 0
	// or a negative process group id.
	ErrInvalidPID = errors.New("invalid pid")
	// ErrUnsupported reports a signal the platform cannot deliver.
	ErrUnsupported = errors.New("signal not supported on this platform")
)

// ParseSignal resolves a signal from its name ("TERM", "sigterm") or number
// ("15"). The numbers follow the Linux numbering.
func ParseSignal(value string) (Signal, error) {
	name := strings.ToUpper(strings.TrimSpace(value))
	name = strings.TrimPrefix(name, "SIG")
	if name == "" {
		return Default, nil
	}
	if n, err := strconv.Atoi(name); err == nil {
		for _, sig := range known {
			if sig.Number == n {
				return sig, nil
			}
		}
		return Signal{}, fmt.Errorf("unknown signal: %s", value)
	}
	for _, sig := range known {
		if sig.Name == name {
			return sig, nil
		}
	}
	return Signal{}, fmt.Errorf("unknown signal: %s", value)
}

// Names lists the supported signal names.
func Names() []string {
	names := make([]string, 0, len(known))
	for _, sig := range known {
		names = append(names, sig.Name)
	}
	return names
}
