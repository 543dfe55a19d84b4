package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types"
)

type fakeDocker struct {
	containers []types.Container
	pids       map[string]int
	listErr    error
}

func (f *fakeDocker) ContainerList(ctx context.Context, options types.ContainerListOptions) ([]types.Container, error) {
	return f.containers, f.listErr
}

func (f *fakeDocker) ContainerInspect(ctx context.Context, id string) (types.ContainerJSON, error) {
	pid, ok := f.pids[id]
	if !ok {
		return types.ContainerJSON{}, errors.New("no such container")
	}
	return types.ContainerJSON{
		ContainerJSONBase: &types.ContainerJSONBase{
			ID:    id,
			State: &types.ContainerState{Running: true, Pid: pid},
		},
	}, nil
}

func TestContainersAttributesPublishedPorts(t *testing.T) {
	api := &fakeDocker{
		containers: []types.Container{
			{ID: "web", Ports: []types.Port{
				{IP: "0.0.0.0", PrivatePort: 80, PublicPort: 8080, Type: "tcp"},
				{PrivatePort: 9000, Type: "tcp"},
			}},
			{ID: "dns", Ports: []types.Port{{PrivatePort: 53, PublicPort: 5353, Type: "udp"}}},
			{ID: "gone", Ports: []types.Port{{PrivatePort: 1, PublicPort: 1111}}},
			{ID: "noports"},
		},
		pids: map[string]int{"web": 4242, "dns": 4343, "noports": 1},
	}
	c := &Containers{api: api}

	raw, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(raw.Processes) != 0 {
		t.Fatalf("expected no processes from container source, got %d", len(raw.Processes))
	}
	if len(raw.Sockets) != 2 {
		t.Fatalf("expected 2 sockets, got %+v", raw.Sockets)
	}
	web := raw.Sockets[0]
	if web.PID != 4242 || web.Port != 8080 || web.Proto != "tcp" || web.Address != "0.0.0.0" {
		t.Fatalf("unexpected web socket %+v", web)
	}
	dns := raw.Sockets[1]
	if dns.PID != 4343 || dns.Port != 5353 || dns.Proto != "udp" {
		t.Fatalf("unexpected dns socket %+v", dns)
	}
}

func TestContainersListError(t *testing.T) {
	c := &Containers{api: &fakeDocker{listErr: errors.New("daemon unavailable")}}
	if _, err := c.Snapshot(context.Background()); err == nil {
		t.Fatalf("expected list error to surface")
	}
}
