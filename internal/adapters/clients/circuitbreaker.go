package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/api-integration/internal/platform/config"
)

// State is the position of a circuit breaker.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen rejects requests until the cooldown elapses.
	StateOpen

	// StateHalfOpen admits a limited number of probe requests.
	StateHalfOpen
)

// String returns a human-readable name for the state.
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

// Counts is a snapshot of breaker bookkeeping, reported by health checks.
type Counts struct {
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	Rejected             uint64
}

// CircuitBreaker guards the upstream API after repeated failures.
//
//	closed    -> open       MaxFailures consecutive failures
//	open      -> half-open  Timeout elapsed since the circuit opened
//	half-open -> closed     HalfOpenLimit consecutive probe successes
//	half-open -> open       any probe failure
type CircuitBreaker struct {
	maxFailures int
	cooldown    time.Duration
	probeLimit  int

	mu       sync.Mutex
	state    State
	counts   Counts
	inFlight int
	openedAt time.Time
	onChange func(from, to State)

	now func() time.Time
}

// NewCircuitBreaker builds a closed breaker from the client configuration.
// Non-positive limits are raised to one.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures: max(cfg.MaxFailures, 1),
		cooldown:    cfg.Timeout,
		probeLimit:  max(cfg.HalfOpenLimit, 1),
		state:       StateClosed,
		now:         time.Now,
	}
}

// OnStateChange registers fn to run after every transition. fn runs outside
// the breaker lock, on the goroutine that caused the transition.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	cb.onChange = fn
	cb.mu.Unlock()
}

// Allow reports whether a request may proceed. An open breaker whose
// cooldown has elapsed moves to half-open and admits the caller as a probe.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var (
		allowed bool
		notify  func()
	)

	switch cb.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.cooldown {
			notify = cb.setState(StateHalfOpen)
			cb.inFlight = 1
			allowed = true
		}
	case StateHalfOpen:
		if cb.inFlight < cb.probeLimit {
			cb.inFlight++
			allowed = true
		}
	}

	if !allowed {
		cb.counts.Rejected++
	}

	cb.mu.Unlock()

	if notify != nil {
		notify()
	}

	return allowed
}

// RecordSuccess records a request that reached the upstream and got a
// non-5xx answer.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var notify func()

	cb.counts.ConsecutiveFailures = 0
	cb.counts.ConsecutiveSuccesses++

	if cb.state == StateHalfOpen {
		cb.inFlight = max(cb.inFlight-1, 0)
		if cb.counts.ConsecutiveSuccesses >= cb.probeLimit {
			notify = cb.setState(StateClosed)
		}
	}

	cb.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// RecordFailure records a transport failure or 5xx answer.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var notify func()

	cb.counts.ConsecutiveSuccesses = 0
	cb.counts.ConsecutiveFailures++

	switch cb.state {
	case StateClosed:
		if cb.counts.ConsecutiveFailures >= cb.maxFailures {
			notify = cb.setState(StateOpen)
		}
	case StateHalfOpen:
		cb.inFlight = max(cb.inFlight-1, 0)
		notify = cb.setState(StateOpen)
	}

	cb.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// State returns the current state without advancing it.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// Counts returns a copy of the current counters.
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}

// setState moves to next and returns the pending callback, if any.
// Callers hold mu and must run the callback after releasing it.
func (cb *CircuitBreaker) setState(next State) func() {
	prev := cb.state
	if prev == next {
		return nil
	}

	cb.state = next
	cb.counts.ConsecutiveFailures = 0
	cb.counts.ConsecutiveSuccesses = 0

	if next == StateOpen {
		cb.openedAt = cb.now()
	}

	if next == StateClosed {
		cb.inFlight = 0
	}

	fn := cb.onChange
	if fn == nil {
		return nil
	}

	return func() { fn(prev, next) }
}
