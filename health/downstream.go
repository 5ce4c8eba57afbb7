package health

import (
	"context"
	"fmt"
)

// Pinger calls a service's health endpoint. *client.Client satisfies this.
type Pinger interface {
	Health(ctx context.Context) error
}

// DownstreamChecker pings a downstream service's health endpoint through its
// resilient client, so an open breaker fails the check without network I/O.
type DownstreamChecker struct {
	name   string
	pinger Pinger
}

// NewDownstreamChecker creates a checker for the named downstream service.
func NewDownstreamChecker(name string, pinger Pinger) *DownstreamChecker {
	return &DownstreamChecker{name: name, pinger: pinger}
}

func (c *DownstreamChecker) Name() string { return c.name }

func (c *DownstreamChecker) Check(ctx context.Context) Result {
	if err := c.pinger.Health(ctx); err != nil {
		return Unhealthy(fmt.Sprintf("%s unreachable", c.name), err)
	}
	return Healthy(fmt.Sprintf("%s reachable", c.name))
}
