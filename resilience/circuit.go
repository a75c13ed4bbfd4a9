package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without reaching the upstream.
	StateOpen
	// StateHalfOpen means a limited number of probe calls are allowed
	// through to test whether the upstream recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before the
	// circuit opens.
	// Default: 5
	FailureThreshold int

	// ResetTimeout is the cooldown after the last failure before probe
	// calls are allowed. The boundary is inclusive: a call arriving
	// exactly ResetTimeout after the last failure is allowed to probe.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// HalfOpenSuccessThreshold is the number of consecutive successful
	// probes required to close the circuit again.
	// Default: 1
	HalfOpenSuccessThreshold int

	// HalfOpenMaxProbes caps the number of outstanding probe calls while
	// half-open. Calls beyond the cap are rejected with ErrCircuitOpen.
	// Default: 1
	HalfOpenMaxProbes int

	// OnStateChange is called on every state transition. It runs with the
	// breaker's lock held and must not call back into the breaker.
	OnStateChange func(from, to State)

	// IsFailure determines whether an error counts against the breaker.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool
}

// CircuitBreaker guards calls to a single upstream provider. One instance
// is created per protected upstream and lives for the process lifetime.
//
// State, counters, and the last-failure timestamp are shared by every call
// through the instance; all transitions are applied under a single mutex.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       State
	failures    int // consecutive failures while closed
	successes   int // consecutive probe successes while half-open
	probes      int // outstanding probe calls while half-open
	lastFailure time.Time
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenSuccessThreshold <= 0 {
		config.HalfOpenSuccessThreshold = 1
	}
	if config.HalfOpenMaxProbes <= 0 {
		config.HalfOpenMaxProbes = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs the operation through the circuit breaker.
//
// When the circuit is open and the cooldown has not elapsed, Execute
// returns ErrCircuitOpen without invoking the operation. Otherwise the
// operation's own error is propagated unchanged.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterCall(err)
	return err
}

// State returns the effective state at the time of the call. It never
// mutates the breaker: the cooldown check is a pure function of now.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked(time.Now())
}

// Reset forces the circuit back to closed and clears all counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateClosed {
		cb.transitionLocked(StateClosed)
		return
	}
	cb.failures = 0
	cb.successes = 0
	cb.probes = 0
}

// stateLocked reports the effective state at time now without mutating.
// An open circuit whose cooldown has elapsed is reported as half-open.
func (cb *CircuitBreaker) stateLocked(now time.Time) State {
	if cb.state == StateOpen && now.Sub(cb.lastFailure) >= cb.config.ResetTimeout {
		return StateHalfOpen
	}
	return cb.state
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if effective := cb.stateLocked(time.Now()); effective != cb.state {
		// Cooldown elapsed: open -> half-open, applied at call time.
		cb.transitionLocked(effective)
	}

	switch cb.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.probes >= cb.config.HalfOpenMaxProbes {
			return ErrCircuitOpen
		}
		cb.probes++
	}

	return nil
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	isFailure := cb.config.IsFailure(err)

	switch cb.state {
	case StateClosed:
		if isFailure {
			cb.failures++
			cb.lastFailure = time.Now()
			if cb.failures >= cb.config.FailureThreshold {
				cb.transitionLocked(StateOpen)
			}
		} else {
			cb.failures = 0
		}

	case StateHalfOpen:
		if cb.probes > 0 {
			cb.probes--
		}
		if isFailure {
			// Failed probe: back to open with a fresh cooldown.
			cb.lastFailure = time.Now()
			cb.transitionLocked(StateOpen)
		} else {
			cb.successes++
			if cb.successes >= cb.config.HalfOpenSuccessThreshold {
				cb.transitionLocked(StateClosed)
			}
		}
	}
	// A call admitted while closed may complete after a concurrent trip to
	// open; its outcome is ignored. Counters only mean something in the
	// state they belong to.
}

// transitionLocked moves to the target state and resets all counters.
func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.successes = 0
	cb.probes = 0

	if from != to && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}

// Metrics returns a snapshot of the breaker's counters.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:       cb.stateLocked(time.Now()),
		Failures:    cb.failures,
		Successes:   cb.successes,
		LastFailure: cb.lastFailure,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State       State
	Failures    int
	Successes   int
	LastFailure time.Time
}
