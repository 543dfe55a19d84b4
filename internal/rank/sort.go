package rank

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/Paintersrp/rip/internal/snapshot"
)

// SortField selects the primary ordering of a view.
type SortField int

const (
	SortCPU SortField = iota
	SortMem
	SortPID
	SortName
	SortPort
)

var sortFieldNames = [...]string{
	SortCPU:  "cpu",
	SortMem:  "mem",
	SortPID:  "pid",
	SortName: "name",
	SortPort: "port",
}

// comparators order entities for each field. Every comparator is pure.
var comparators = [...]func(a, b snapshot.Entity) int{
	SortCPU:  compareCPU,
	SortMem:  compareMem,
	SortPID:  comparePID,
	SortName: compareName,
	SortPort: comparePort,
}

// ParseSortField parses a sort field name.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cpu":
		return SortCPU, nil
	case "mem", "memory":
		return SortMem, nil
	case "pid":
		return SortPID, nil
	case "name":
		return SortName, nil
	case "port", "ports":
		return SortPort, nil
	}
	return SortCPU, fmt.Errorf("unknown sort field %q (want cpu, mem, pid, name or port)", s)
}

func (f SortField) String() string {
	if f < 0 || int(f) >= len(sortFieldNames) {
		return fmt.Sprintf("SortField(%d)", int(f))
	}
	return sortFieldNames[f]
}

// Next cycles to the following sort field.
func (f SortField) Next() SortField {
	return SortField((int(f) + 1) % len(sortFieldNames))
}

// Compare orders a before b according to the field.
func (f SortField) Compare(a, b snapshot.Entity) int {
	if f < 0 || int(f) >= len(comparators) {
		return compareCPU(a, b)
	}
	return comparators[f](a, b)
}

func compareCPU(a, b snapshot.Entity) int {
	return cmp.Compare(b.CPUPercent, a.CPUPercent)
}

func compareMem(a, b snapshot.Entity) int {
	return cmp.Compare(b.MemoryBytes, a.MemoryBytes)
}

func comparePID(a, b snapshot.Entity) int {
	return cmp.Compare(a.PID, b.PID)
}

func compareName(a, b snapshot.Entity) int {
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// comparePort orders by lowest owned port; entities without ports sort last.
func comparePort(a, b snapshot.Entity) int {
	pa, okA := a.LowestPort()
	pb, okB := b.LowestPort()
	switch {
	case okA && okB:
		return cmp.Compare(pa, pb)
	case okA:
		return -1
	case okB:
		return 1
	}
	return 0
}
