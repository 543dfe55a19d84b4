package snapshot

import "sort"

// Options controls how raw snapshots are turned into entities.
type Options struct {
	// Ports enables correlation of listening sockets with processes.
	Ports bool
	// HidePortless drops processes without listening ports in ports mode.
	HidePortless bool
	// Port, when non-zero, keeps only processes owning that port. It
	// implies Ports.
	Port uint16
}

// PortsEnabled reports whether socket correlation is active.
func (o Options) PortsEnabled() bool {
	return o.Ports || o.Port != 0
}

// Normalize converts a raw snapshot into entities ordered by pid.
func Normalize(raw Raw, opts Options) []Entity {
	portsMode := opts.PortsEnabled()

	var owned map[int32][]uint16
	if portsMode {
		owned = make(map[int32][]uint16)
		for _, sock := range raw.Sockets {
			if sock.PID <= 0 || sock.Port == 0 {
				continue
			}
			owned[sock.PID] = append(owned[sock.PID], sock.Port)
		}
	}

	entities := make([]Entity, 0, len(raw.Processes))
	seen := make(map[int32]struct{}, len(raw.Processes))
	for _, proc := range raw.Processes {
		if proc.Err != nil {
			continue
		}
		if _, dup := seen[proc.PID]; dup {
			continue
		}
		seen[proc.PID] = struct{}{}

		entity := Entity{
			PID:         proc.PID,
			PPID:        proc.PPID,
			Name:        proc.Name,
			CPUPercent:  proc.CPUPercent,
			MemoryBytes: proc.MemoryBytes,
		}
		if portsMode {
			entity.Ports = uniquePorts(owned[proc.PID])
			if len(entity.Ports) == 0 && (opts.HidePortless || opts.Port != 0) {
				continue
			}
			if opts.Port != 0 && !entity.HasPort(opts.Port) {
				continue
			}
		}
		entities = append(entities, entity)
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].PID < entities[j].PID
	})
	return entities
}

func uniquePorts(ports []uint16) []uint16 {
	if len(ports) == 0 {
		return []uint16{}
	}
	dup := append([]uint16(nil), ports...)
	sort.Slice(dup, func(i, j int) bool { return dup[i] < dup[j] })
	out := dup[:1]
	for _, p := range dup[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
