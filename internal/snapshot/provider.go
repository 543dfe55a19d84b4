package snapshot

import (
	"context"
	"fmt"

	"github.com/Paintersrp/rip/internal/cliutil"
)

// Provider returns the current process and socket state of the host.
// Implementations must honour context cancellation.
type Provider interface {
	Snapshot(ctx context.Context) (Raw, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Raw, error)

// Snapshot implements Provider.
func (f ProviderFunc) Snapshot(ctx context.Context) (Raw, error) {
	return f(ctx)
}

type merged struct {
	primary Provider
	sockets []Provider
	log     *cliutil.Logger
}

// Merge combines a primary provider with additional socket sources. Only the
// sockets of the extra sources are used. A failing primary fails the whole
// snapshot; a failing socket source is logged and skipped.
func Merge(primary Provider, log *cliutil.Logger, sockets ...Provider) Provider {
	if len(sockets) == 0 {
		return primary
	}
	return &merged{primary: primary, sockets: sockets, log: log}
}

func (m *merged) Snapshot(ctx context.Context) (Raw, error) {
	raw, err := m.primary.Snapshot(ctx)
	if err != nil {
		return Raw{}, err
	}
	for i, src := range m.sockets {
		extra, err := src.Snapshot(ctx)
		if err != nil {
			m.log.Warn("snapshot", fmt.Sprintf("socket source %d failed", i), err)
			continue
		}
		raw.Sockets = append(raw.Sockets, extra.Sockets...)
	}
	return raw, nil
}
