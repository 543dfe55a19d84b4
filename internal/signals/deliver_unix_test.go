//go:build !windows

package signals

import (
	"errors"
	"os/exec"
	"testing"
	"time"
)

func TestDeliverTerminatesChild(t *testing.T) {
	cmd := exec.Command("/bin/sh", "-c", "sleep 30")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start child: %v", err)
	}
	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	outcomes := NewDispatcher().Dispatch([]int32{int32(cmd.Process.Pid)}, SIGTERM)
	if len(outcomes) != 1 || !outcomes[0].Succeeded {
		t.Fatalf("expected successful delivery, got %+v", outcomes)
	}

	select {
	case <-waitErr:
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatalf("child did not exit after SIGTERM")
	}

	outcomes = NewDispatcher().Dispatch([]int32{int32(cmd.Process.Pid)}, SIGTERM)
	if outcomes[0].Succeeded || !errors.Is(outcomes[0].Err, ErrNoSuchProcess) {
		t.Fatalf("expected no such process after exit, got %+v", outcomes[0])
	}
}
