package selection

import (
	"reflect"
	"testing"

	"github.com/Paintersrp/rip/internal/rank"
	"github.com/Paintersrp/rip/internal/snapshot"
)

func entities(names map[int32]string) []snapshot.Entity {
	out := make([]snapshot.Entity, 0, len(names))
	for pid, name := range names {
		out = append(out, snapshot.Entity{PID: pid, Name: name})
	}
	return out
}

func TestToggleAt(t *testing.T) {
	view := rank.Rank(entities(map[int32]string{1: "a", 2: "b"}), "", rank.SortPID)
	tr := New()

	if !tr.ToggleAt(view, 1) || !tr.Selected(2) {
		t.Fatalf("expected pid 2 to be selected")
	}
	if tr.ToggleAt(view, 2) || tr.ToggleAt(view, -1) {
		t.Fatalf("expected out of range toggles to be no-ops")
	}
	if tr.Len() != 1 {
		t.Fatalf("expected 1 selected pid, got %d", tr.Len())
	}
	tr.ToggleAt(view, 1)
	if tr.Selected(2) {
		t.Fatalf("expected second toggle to deselect")
	}
}

func TestToggleOnlyReachesVisibleRows(t *testing.T) {
	all := entities(map[int32]string{1: "chrome", 2: "bash"})
	view := rank.Rank(all, "bash", rank.SortPID)
	tr := New()

	tr.ToggleAt(view, 0)
	tr.ToggleAt(view, 1)
	if !reflect.DeepEqual(tr.Confirm(), []int32{2}) {
		t.Fatalf("expected only visible pid 2 selected, got %v", tr.Confirm())
	}
}

func TestReconcileKeepsHiddenSelection(t *testing.T) {
	all := entities(map[int32]string{1: "chrome", 2: "bash", 3: "node"})
	tr := New()

	view := rank.Rank(all, "", rank.SortPID)
	tr.ToggleAt(view, 0)

	filtered := rank.Rank(all, "node", rank.SortPID)
	tr.Reconcile(filtered)
	if !tr.Selected(1) {
		t.Fatalf("pid hidden by the query must stay selected")
	}

	gone := rank.Rank(entities(map[int32]string{2: "bash", 3: "node"}), "node", rank.SortPID)
	tr.Reconcile(gone)
	if tr.Selected(1) {
		t.Fatalf("pid absent from the full snapshot must be pruned")
	}
}

func TestReconcileCursorFollowsPID(t *testing.T) {
	tr := New()
	first := rank.Rank([]snapshot.Entity{
		{PID: 1, Name: "a", CPUPercent: 30},
		{PID: 2, Name: "b", CPUPercent: 20},
		{PID: 3, Name: "c", CPUPercent: 10},
	}, "", rank.SortCPU)
	tr.Move(first, 1)
	if tr.Cursor() != 1 {
		t.Fatalf("expected cursor 1, got %d", tr.Cursor())
	}

	second := rank.Rank([]snapshot.Entity{
		{PID: 1, Name: "a", CPUPercent: 5},
		{PID: 2, Name: "b", CPUPercent: 50},
		{PID: 3, Name: "c", CPUPercent: 10},
	}, "", rank.SortCPU)
	tr.Reconcile(second)
	if tr.Cursor() != 0 {
		t.Fatalf("expected cursor to follow pid 2 to row 0, got %d", tr.Cursor())
	}
}

func TestReconcileClampsCursor(t *testing.T) {
	tr := New()
	view := rank.Rank(entities(map[int32]string{1: "a", 2: "b", 3: "c", 4: "d"}), "", rank.SortPID)
	tr.End(view)
	if tr.Cursor() != 3 {
		t.Fatalf("expected cursor at last row, got %d", tr.Cursor())
	}

	shrunk := rank.Rank(entities(map[int32]string{1: "a", 2: "b"}), "", rank.SortPID)
	tr.Reconcile(shrunk)
	if tr.Cursor() != 1 {
		t.Fatalf("expected cursor clamped to 1, got %d", tr.Cursor())
	}

	empty := rank.Rank(nil, "", rank.SortPID)
	tr.Reconcile(empty)
	if tr.Cursor() != 0 {
		t.Fatalf("expected cursor 0 on empty view, got %d", tr.Cursor())
	}

	tr.Reconcile(shrunk)
	if tr.Cursor() < 0 || tr.Cursor() >= shrunk.Len() {
		t.Fatalf("cursor %d out of bounds", tr.Cursor())
	}
}

func TestMoveClamps(t *testing.T) {
	tr := New()
	view := rank.Rank(entities(map[int32]string{1: "a", 2: "b"}), "", rank.SortPID)
	tr.Move(view, -5)
	if tr.Cursor() != 0 {
		t.Fatalf("expected cursor 0, got %d", tr.Cursor())
	}
	tr.Move(view, 10)
	if tr.Cursor() != 1 {
		t.Fatalf("expected cursor 1, got %d", tr.Cursor())
	}
	tr.Home(view)
	if tr.Cursor() != 0 {
		t.Fatalf("expected cursor 0 after Home, got %d", tr.Cursor())
	}
}

func TestConfirmAndCancel(t *testing.T) {
	tr := New()
	view := rank.Rank(entities(map[int32]string{9: "b", 5: "a"}), "", rank.SortName)
	tr.ToggleAt(view, 0)
	tr.ToggleAt(view, 1)

	if got := tr.Confirm(); !reflect.DeepEqual(got, []int32{5, 9}) {
		t.Fatalf("expected [5 9], got %v", got)
	}
	if tr.Len() != 2 {
		t.Fatalf("confirm must not clear the selection")
	}
	tr.Cancel()
	if tr.Len() != 0 || len(tr.Confirm()) != 0 {
		t.Fatalf("cancel must clear the selection")
	}
}
