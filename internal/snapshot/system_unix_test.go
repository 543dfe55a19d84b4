//go:build !windows

package snapshot

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

func cpuOf(raw Raw, pid int32) (float64, bool) {
	for _, proc := range raw.Processes {
		if proc.PID == pid && proc.Err == nil {
			return proc.CPUPercent, true
		}
	}
	return 0, false
}

func TestSystemSnapshotMeasuresProcessesStartedLater(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sys := NewSystem(SystemOptions{CPUSample: 10 * time.Millisecond})
	if _, err := sys.Snapshot(ctx); err != nil {
		t.Skipf("process table unavailable: %v", err)
	}

	cmd := exec.Command("/bin/sh", "-c", "while :; do :; done")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start busy child: %v", err)
	}
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()
	pid := int32(cmd.Process.Pid)

	for poll := 1; poll <= 3; poll++ {
		time.Sleep(300 * time.Millisecond)
		raw, err := sys.Snapshot(ctx)
		if err != nil {
			t.Fatalf("poll %d: %v", poll, err)
		}
		cpu, ok := cpuOf(raw, pid)
		if !ok {
			t.Fatalf("poll %d: busy child %d missing from snapshot", poll, pid)
		}
		if cpu <= 0 {
			t.Fatalf("poll %d: expected busy child to report cpu, got %.1f", poll, cpu)
		}
	}
}
