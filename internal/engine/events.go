package engine

import (
	"time"

	"github.com/Paintersrp/rip/internal/snapshot"
)

// Status captures where an interaction session stands.
type Status string

const (
	StatusRunning    Status = "running"
	StatusConfirming Status = "confirming"
	StatusConfirmed  Status = "confirmed"
	StatusCancelled  Status = "cancelled"
)

// Done reports whether the session has finished.
func (s Status) Done() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Result is what a finished session hands to the caller.
type Result struct {
	Status Status
	// PIDs holds the confirmed selection in ascending order. It is empty
	// when the session was cancelled.
	PIDs []int32
	// Entities maps each confirmed pid to its last observed state.
	Entities map[int32]snapshot.Entity
}

// snapshotResult is the immutable hand-off from a background fetch to the
// interaction loop.
type snapshotResult struct {
	seq  uint64
	raw  snapshot.Raw
	err  error
	took time.Duration
}
