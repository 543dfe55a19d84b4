// Package selection tracks the multi-selection and cursor of a ranked view
// across snapshots. Identity is the pid; a pid reused by the operating system
// between two snapshots is indistinguishable from the original process.
package selection

import (
	"sort"

	"github.com/Paintersrp/rip/internal/rank"
)

// Tracker holds the selected pids and the cursor into the current view.
// It is not safe for concurrent use; the interaction loop owns it.
type Tracker struct {
	selected map[int32]struct{}

	cursor    int
	cursorPID int32
	hasCursor bool
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{selected: make(map[int32]struct{})}
}

// Cursor returns the current cursor index.
func (t *Tracker) Cursor() int {
	return t.cursor
}

// Len returns the number of selected pids.
func (t *Tracker) Len() int {
	return len(t.selected)
}

// Selected reports whether pid is selected.
func (t *Tracker) Selected(pid int32) bool {
	_, ok := t.selected[pid]
	return ok
}

// ToggleAt flips the membership of the pid rendered at index. Rows outside
// the view cannot be toggled. It reports whether anything changed.
func (t *Tracker) ToggleAt(view rank.View, index int) bool {
	item, ok := view.At(index)
	if !ok {
		return false
	}
	pid := item.Entity.PID
	if _, ok := t.selected[pid]; ok {
		delete(t.selected, pid)
	} else {
		t.selected[pid] = struct{}{}
	}
	return true
}

// Reconcile aligns the tracker with a freshly ranked view. The cursor follows
// the pid it pointed at when that pid is still visible, otherwise it is
// clamped into range. Selected pids missing from the unfiltered snapshot are
// dropped; pids merely hidden by the query are kept.
func (t *Tracker) Reconcile(view rank.View) {
	for pid := range t.selected {
		if !view.Contains(pid) {
			delete(t.selected, pid)
		}
	}

	if t.hasCursor {
		if idx := view.IndexOf(t.cursorPID); idx >= 0 {
			t.setCursor(view, idx)
			return
		}
	}
	t.setCursor(view, t.cursor)
}

// Move shifts the cursor by delta rows, clamped to the view.
func (t *Tracker) Move(view rank.View, delta int) {
	t.setCursor(view, t.cursor+delta)
}

// Home moves the cursor to the first row.
func (t *Tracker) Home(view rank.View) {
	t.setCursor(view, 0)
}

// End moves the cursor to the last row.
func (t *Tracker) End(view rank.View) {
	t.setCursor(view, view.Len()-1)
}

// Confirm returns the selected pids in ascending order. The selection is left
// untouched; callers clear it once the signals are dispatched.
func (t *Tracker) Confirm() []int32 {
	pids := make([]int32, 0, len(t.selected))
	for pid := range t.selected {
		pids = append(pids, pid)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}

// Clear empties the selection.
func (t *Tracker) Clear() {
	t.selected = make(map[int32]struct{})
}

// Cancel abandons the selection without dispatching anything.
func (t *Tracker) Cancel() {
	t.Clear()
}

func (t *Tracker) setCursor(view rank.View, idx int) {
	if idx >= view.Len() {
		idx = view.Len() - 1
	}
	if idx < 0 {
		idx = 0
	}
	t.cursor = idx
	if item, ok := view.At(idx); ok {
		t.cursorPID = item.Entity.PID
		t.hasCursor = true
		return
	}
	t.hasCursor = false
}
