package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/fingate/resilience"
)

// BreakerMonitor exposes a client's circuit state. *client.Client satisfies
// this.
type BreakerMonitor interface {
	BreakerSnapshot() resilience.Snapshot
}

// BreakerChecker reports a downstream client's circuit breaker state: open
// is unhealthy, half-open is degraded, closed is healthy.
type BreakerChecker struct {
	name    string
	monitor BreakerMonitor
}

// NewBreakerChecker creates a breaker checker for the named service.
func NewBreakerChecker(name string, monitor BreakerMonitor) *BreakerChecker {
	return &BreakerChecker{name: name, monitor: monitor}
}

func (c *BreakerChecker) Name() string { return c.name }

func (c *BreakerChecker) Check(ctx context.Context) Result {
	snap := c.monitor.BreakerSnapshot()
	details := map[string]any{
		"state":    snap.State.String(),
		"failures": snap.Failures,
	}
	if !snap.LastFailure.IsZero() {
		details["last_failure"] = snap.LastFailure.UTC().Format(time.RFC3339)
	}

	switch snap.State {
	case resilience.StateOpen:
		return Unhealthy(fmt.Sprintf("circuit open for %s", c.name), nil).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded(fmt.Sprintf("circuit probing recovery for %s", c.name)).WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}
