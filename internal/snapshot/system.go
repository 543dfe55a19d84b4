package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

const (
	defaultCPUSample = 200 * time.Millisecond
	listenStatus     = "LISTEN"
)

// SystemOptions configures the host provider.
type SystemOptions struct {
	// Ports enables reading listening sockets.
	Ports bool
	// CPUSample is how long the first snapshot waits between two CPU
	// samples. Later snapshots measure against the previous poll.
	CPUSample time.Duration
}

// System reads processes and sockets from the local host.
type System struct {
	opts SystemOptions

	mu     sync.Mutex
	procs  map[int32]*process.Process
	primed bool
}

// NewSystem constructs a host provider.
func NewSystem(opts SystemOptions) *System {
	if opts.CPUSample <= 0 {
		opts.CPUSample = defaultCPUSample
	}
	return &System{
		opts:  opts,
		procs: make(map[int32]*process.Process),
	}
}

// Snapshot implements Provider.
func (s *System) Snapshot(ctx context.Context) (Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return Raw{}, fmt.Errorf("list processes: %w", err)
	}

	live := make(map[int32]*process.Process, len(pids))
	missing := make(map[int32]error)
	fresh := make(map[int32]bool)
	for _, pid := range pids {
		if p, ok := s.procs[pid]; ok {
			live[pid] = p
			continue
		}
		p, err := process.NewProcessWithContext(ctx, pid)
		if err != nil {
			missing[pid] = err
			continue
		}
		live[pid] = p
		fresh[pid] = true
	}

	// CPU percent is a delta between two samples. The first snapshot has no
	// previous sample, so take one now and wait.
	if !s.primed {
		for _, p := range live {
			_, _ = p.PercentWithContext(ctx, 0)
		}
		if err := sleepContext(ctx, s.opts.CPUSample); err != nil {
			return Raw{}, err
		}
		fresh = nil
		s.primed = true
	}

	raw := Raw{Processes: make([]RawProcess, 0, len(pids))}
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return Raw{}, err
		}
		if err, ok := missing[pid]; ok {
			raw.Processes = append(raw.Processes, RawProcess{PID: pid, Err: err})
			continue
		}
		p := live[pid]
		proc := readProcess(ctx, p, fresh[pid])
		if proc.Err != nil {
			delete(live, pid)
		}
		raw.Processes = append(raw.Processes, proc)
	}
	s.procs = live

	if s.opts.Ports {
		sockets, err := listeningSockets(ctx)
		if err != nil {
			return Raw{}, err
		}
		raw.Sockets = sockets
	}

	raw.Taken = time.Now()
	return raw, nil
}

func readProcess(ctx context.Context, p *process.Process, fresh bool) RawProcess {
	proc := RawProcess{PID: p.Pid}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		proc.Err = fmt.Errorf("read name of %d: %w", p.Pid, err)
		return proc
	}
	proc.Name = name

	if ppid, err := p.PpidWithContext(ctx); err == nil {
		proc.PPID = ppid
	}
	if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
		proc.MemoryBytes = mem.RSS
	}

	var cpu float64
	if fresh {
		// No previous sample yet: report the lifetime average and record a
		// sample so the next poll measures a real delta.
		cpu, err = p.CPUPercentWithContext(ctx)
		_, _ = p.PercentWithContext(ctx, 0)
	} else {
		cpu, err = p.PercentWithContext(ctx, 0)
	}
	if err == nil {
		proc.CPUPercent = cpu
	}
	return proc
}

func listeningSockets(ctx context.Context) ([]RawSocket, error) {
	conns, err := net.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return nil, fmt.Errorf("list sockets: %w", err)
	}
	sockets := make([]RawSocket, 0, len(conns))
	for _, conn := range conns {
		if conn.Status != listenStatus || conn.Pid <= 0 {
			continue
		}
		if conn.Laddr.Port == 0 || conn.Laddr.Port > 65535 {
			continue
		}
		sockets = append(sockets, RawSocket{
			PID:     conn.Pid,
			Port:    uint16(conn.Laddr.Port),
			Proto:   "tcp",
			Address: conn.Laddr.IP,
		})
	}
	return sockets, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
