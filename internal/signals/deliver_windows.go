//go:build windows

package signals

import (
	"errors"
	"os"
)

// Windows has no POSIX signals; KILL, TERM, INT and QUIT all terminate the
// process, anything else is rejected.
func deliver(pid int32, sig Signal) error {
	switch sig.Name {
	case "KILL", "TERM", "INT", "QUIT":
	default:
		return ErrUnsupported
	}
	proc, err := os.FindProcess(int(pid))
	if err != nil {
		return ErrNoSuchProcess
	}
	if err := proc.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return ErrNoSuchProcess
		}
		return err
	}
	return nil
}
