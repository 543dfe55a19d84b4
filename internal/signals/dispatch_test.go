package signals

import (
	"errors"
	"testing"
)

func TestDispatchPartialFailure(t *testing.T) {
	var sent []int32
	kill := func(pid int32, sig Signal) error {
		sent = append(sent, pid)
		if sig != SIGTERM {
			t.Fatalf("expected SIGTERM, got %v", sig)
		}
		if pid == 5 {
			return ErrNoSuchProcess
		}
		return nil
	}

	d := NewDispatcher(WithKillFunc(kill))
	outcomes := d.Dispatch([]int32{5, 9}, SIGTERM)

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].PID != 5 || outcomes[0].Succeeded || !errors.Is(outcomes[0].Err, ErrNoSuchProcess) {
		t.Fatalf("unexpected outcome for pid 5: %+v", outcomes[0])
	}
	if outcomes[0].Detail() == "" {
		t.Fatalf("expected a failure detail for pid 5")
	}
	if outcomes[1].PID != 9 || !outcomes[1].Succeeded || outcomes[1].Err != nil {
		t.Fatalf("unexpected outcome for pid 9: %+v", outcomes[1])
	}
	if len(sent) != 2 {
		t.Fatalf("expected both pids attempted, got %v", sent)
	}

	failed := Failed(outcomes)
	if len(failed) != 1 || failed[0].PID != 5 {
		t.Fatalf("expected pid 5 reported as failed, got %+v", failed)
	}
}

func TestDispatchEmpty(t *testing.T) {
	d := NewDispatcher(WithKillFunc(func(int32, Signal) error {
		t.Fatalf("kill must not be called")
		return nil
	}))
	outcomes := d.Dispatch(nil, SIGKILL)
	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %+v", outcomes)
	}
	if len(Failed(outcomes)) != 0 {
		t.Fatalf("expected success status for empty dispatch")
	}
}

func TestDispatchRejectsInvalidPID(t *testing.T) {
	called := false
	d := NewDispatcher(WithKillFunc(func(int32, Signal) error {
		called = true
		return nil
	}))
	outcomes := d.Dispatch([]int32{0, -1}, SIGKILL)
	if called {
		t.Fatalf("kill must never be called for pid <= 0")
	}
	for _, o := range outcomes {
		if o.Succeeded || !errors.Is(o.Err, ErrInvalidPID) {
			t.Fatalf("expected invalid pid outcome, got %+v", o)
		}
	}
}
