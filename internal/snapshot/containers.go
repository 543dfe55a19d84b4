package snapshot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

type dockerAPI interface {
	ContainerList(ctx context.Context, options types.ContainerListOptions) ([]types.Container, error)
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
}

// Containers reports ports published by running Docker containers, attributed
// to each container's init process on the host. It only ever fills
// Raw.Sockets and is meant to be combined with System through Merge.
type Containers struct {
	api        dockerAPI
	clientOnce sync.Once
	clientErr  error
}

// NewContainers returns a socket source backed by the Docker engine configured
// in the environment (DOCKER_HOST and friends).
func NewContainers() *Containers {
	return &Containers{}
}

func (c *Containers) getClient() (dockerAPI, error) {
	c.clientOnce.Do(func() {
		if c.api != nil {
			return
		}
		cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			c.clientErr = err
			return
		}
		c.api = cli
	})
	return c.api, c.clientErr
}

// Snapshot implements Provider.
func (c *Containers) Snapshot(ctx context.Context) (Raw, error) {
	api, err := c.getClient()
	if err != nil {
		return Raw{}, fmt.Errorf("create docker client: %w", err)
	}

	containers, err := api.ContainerList(ctx, types.ContainerListOptions{})
	if err != nil {
		return Raw{}, fmt.Errorf("container list: %w", err)
	}

	var sockets []RawSocket
	for _, ctr := range containers {
		if len(ctr.Ports) == 0 {
			continue
		}
		info, err := api.ContainerInspect(ctx, ctr.ID)
		if err != nil {
			// The container may have stopped since it was listed.
			continue
		}
		if info.ContainerJSONBase == nil || info.State == nil || info.State.Pid <= 0 {
			continue
		}
		pid := int32(info.State.Pid)
		for _, binding := range ctr.Ports {
			if binding.PublicPort == 0 {
				continue
			}
			port, err := nat.NewPort(protoOrTCP(binding.Type), strconv.Itoa(int(binding.PublicPort)))
			if err != nil {
				continue
			}
			number := port.Int()
			if number <= 0 || number > 65535 {
				continue
			}
			sockets = append(sockets, RawSocket{
				PID:     pid,
				Port:    uint16(number),
				Proto:   port.Proto(),
				Address: binding.IP,
			})
		}
	}

	return Raw{Taken: time.Now(), Sockets: sockets}, nil
}

func protoOrTCP(proto string) string {
	if proto == "" {
		return "tcp"
	}
	return proto
}
