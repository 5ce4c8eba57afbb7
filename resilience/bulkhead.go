package resilience

import (
	"context"
	"sync"
)

// BulkheadConfig configures the concurrency cap.
type BulkheadConfig struct {
	// MaxConcurrent is the maximum number of in-flight operations.
	// Default: 32
	MaxConcurrent int
}

// Bulkhead caps concurrent operations so one slow downstream cannot exhaust
// the process's connections. Calls beyond the cap fail immediately with
// ErrBulkheadFull rather than queueing.
type Bulkhead struct {
	sem chan struct{}

	mu       sync.Mutex
	rejected int64
}

// NewBulkhead creates a bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 32
	}
	return &Bulkhead{sem: make(chan struct{}, config.MaxConcurrent)}
}

// Execute runs the operation if a slot is available.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	select {
	case b.sem <- struct{}{}:
	default:
		b.mu.Lock()
		b.rejected++
		b.mu.Unlock()
		return ErrBulkheadFull
	}
	defer func() { <-b.sem }()
	return op(ctx)
}

// Rejected returns the number of calls rejected at capacity.
func (b *Bulkhead) Rejected() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rejected
}
