//go:build !windows

package signals

import (
	"errors"

	"golang.org/x/sys/unix"
)

var platformSignals = map[string]unix.Signal{
	"HUP":  unix.SIGHUP,
	"INT":  unix.SIGINT,
	"QUIT": unix.SIGQUIT,
	"KILL": unix.SIGKILL,
	"USR1": unix.SIGUSR1,
	"USR2": unix.SIGUSR2,
	"TERM": unix.SIGTERM,
	"CONT": unix.SIGCONT,
	"STOP": unix.SIGSTOP,
}

func deliver(pid int32, sig Signal) error {
	s, ok := platformSignals[sig.Name]
	if !ok {
		return ErrUnsupported
	}
	if err := unix.Kill(int(pid), s); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, unix.ESRCH):
		return ErrNoSuchProcess
	case errors.Is(err, unix.EPERM):
		return ErrPermission
	}
	return err
}
