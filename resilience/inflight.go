package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// InFlightConfig configures the in-flight call cap.
type InFlightConfig struct {
	// MaxCalls is the maximum number of concurrent calls.
	// Default: 10
	MaxCalls int64

	// MaxWait is the maximum time to wait for a slot.
	// Default: 0 (no waiting, fail immediately)
	MaxWait time.Duration
}

// InFlight caps the number of concurrent calls to one upstream. With
// MaxCalls set to the breaker's probe budget it also serves as an explicit
// "at most N outstanding probes" gate around a half-open circuit.
type InFlight struct {
	config InFlightConfig
	sem    *semaphore.Weighted

	mu       sync.Mutex
	active   int64
	peak     int64
	rejected int64
}

// NewInFlight creates a new in-flight cap.
func NewInFlight(config InFlightConfig) *InFlight {
	// Apply defaults
	if config.MaxCalls <= 0 {
		config.MaxCalls = 10
	}

	return &InFlight{
		config: config,
		sem:    semaphore.NewWeighted(config.MaxCalls),
	}
}

// Execute runs the operation while holding a slot. When no slot is
// available within MaxWait, it returns ErrTooManyInFlight.
func (f *InFlight) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := f.Acquire(ctx); err != nil {
		return err
	}
	defer f.Release()

	return op(ctx)
}

// Acquire claims a slot, waiting up to MaxWait for one to free up.
func (f *InFlight) Acquire(ctx context.Context) error {
	if f.sem.TryAcquire(1) {
		f.noteAcquired()
		return nil
	}

	if f.config.MaxWait <= 0 {
		f.noteRejected()
		return ErrTooManyInFlight
	}

	waitCtx, cancel := context.WithTimeout(ctx, f.config.MaxWait)
	defer cancel()

	if err := f.sem.Acquire(waitCtx, 1); err != nil {
		// Parent cancellation wins over the wait budget.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			f.noteRejected()
			return ErrTooManyInFlight
		}
		return err
	}

	f.noteAcquired()
	return nil
}

// Release returns a slot claimed by Acquire.
func (f *InFlight) Release() {
	f.sem.Release(1)
	f.mu.Lock()
	f.active--
	f.mu.Unlock()
}

func (f *InFlight) noteAcquired() {
	f.mu.Lock()
	f.active++
	if f.active > f.peak {
		f.peak = f.active
	}
	f.mu.Unlock()
}

func (f *InFlight) noteRejected() {
	f.mu.Lock()
	f.rejected++
	f.mu.Unlock()
}

// Metrics returns a snapshot of the in-flight counters.
func (f *InFlight) Metrics() InFlightMetrics {
	f.mu.Lock()
	defer f.mu.Unlock()

	return InFlightMetrics{
		Active:   f.active,
		Peak:     f.peak,
		Rejected: f.rejected,
	}
}

// InFlightMetrics contains in-flight cap statistics.
type InFlightMetrics struct {
	Active   int64
	Peak     int64
	Rejected int64
}
