package snapshot

import (
	"sort"
	"time"
)

// RawProcess is a process as read from a provider, before normalization.
type RawProcess struct {
	PID         int32
	PPID        int32
	Name        string
	CPUPercent  float64
	MemoryBytes uint64

	// Err is set when the process was listed but its details could not be
	// read, typically because it exited in between.
	Err error
}

// RawSocket is a listening socket attributed to an owning pid.
type RawSocket struct {
	PID     int32
	Port    uint16
	Proto   string
	Address string
}

// Raw is one complete read of process and socket state.
type Raw struct {
	Taken     time.Time
	Processes []RawProcess
	Sockets   []RawSocket
}

// Entity is one observed process at snapshot time.
type Entity struct {
	PID         int32
	PPID        int32
	Name        string
	CPUPercent  float64
	MemoryBytes uint64

	// Ports is nil unless ports mode is active. When set it is sorted and
	// free of duplicates.
	Ports []uint16
}

// HasPort reports whether the entity owns the provided listening port.
func (e Entity) HasPort(port uint16) bool {
	i := sort.Search(len(e.Ports), func(i int) bool { return e.Ports[i] >= port })
	return i < len(e.Ports) && e.Ports[i] == port
}

// LowestPort returns the smallest listening port owned by the entity.
func (e Entity) LowestPort() (uint16, bool) {
	if len(e.Ports) == 0 {
		return 0, false
	}
	return e.Ports[0], true
}
