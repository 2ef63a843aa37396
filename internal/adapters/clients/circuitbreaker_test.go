package clients

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/api-integration/internal/platform/config"
)

// fakeClock is a manually advanced clock for breaker tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestBreaker(maxFailures, halfOpen int) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	cb := NewCircuitBreaker(config.CircuitBreakerConfig{
		Enabled:       true,
		MaxFailures:   maxFailures,
		Timeout:       30 * time.Second,
		HalfOpenLimit: halfOpen,
	})
	cb.now = clock.Now

	return cb, clock
}

// trip opens the breaker and moves it to half-open with one probe admitted.
func trip(t *testing.T, cb *CircuitBreaker, clock *fakeClock) {
	t.Helper()

	for cb.State() != StateOpen {
		cb.RecordFailure()
	}

	clock.Advance(31 * time.Second)
	require.True(t, cb.Allow())
	require.Equal(t, StateHalfOpen, cb.State())
}

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	cb, _ := newTestBreaker(5, 3)

	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.Allow())
	assert.Equal(t, Counts{}, cb.Counts())
}

func TestCircuitBreaker_NonPositiveLimitsAreRaised(t *testing.T) {
	cb, _ := newTestBreaker(0, -1)

	cb.RecordFailure()

	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	tests := []struct {
		name   string
		events []bool // true = success
		want   State
	}{
		{"below threshold", []bool{false, false}, StateClosed},
		{"at threshold", []bool{false, false, false}, StateOpen},
		{"success resets streak", []bool{false, false, true, false, false}, StateClosed},
		{"streak after reset", []bool{false, true, false, false, false}, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, _ := newTestBreaker(3, 2)

			for _, ok := range tt.events {
				if ok {
					cb.RecordSuccess()
				} else {
					cb.RecordFailure()
				}
			}

			assert.Equal(t, tt.want, cb.State())
		})
	}
}

func TestCircuitBreaker_OpenRejectsUntilCooldown(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)
	cb.RecordFailure()

	assert.False(t, cb.Allow())
	clock.Advance(29 * time.Second)
	assert.False(t, cb.Allow())
	assert.Equal(t, uint64(2), cb.Counts().Rejected)

	clock.Advance(time.Second)
	assert.True(t, cb.Allow())
	assert.Equal(t, StateHalfOpen, cb.State())
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)
	trip(t, cb, clock)

	assert.True(t, cb.Allow(), "second probe")
	assert.False(t, cb.Allow(), "third probe exceeds limit")
}

func TestCircuitBreaker_HalfOpenCloses(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)
	trip(t, cb, clock)

	cb.RecordSuccess()
	assert.Equal(t, StateHalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.Allow())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)
	trip(t, cb, clock)

	cb.RecordFailure()

	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow(), "cooldown restarts from the reopen")
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	cb, clock := newTestBreaker(1, 1)

	var transitions [][2]State
	cb.OnStateChange(func(from, to State) {
		// Runs outside the lock, so reading state here must not deadlock.
		_ = cb.State()
		transitions = append(transitions, [2]State{from, to})
	})

	cb.RecordFailure()
	clock.Advance(time.Minute)
	cb.Allow()
	cb.RecordSuccess()

	assert.Equal(t, [][2]State{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}, transitions)
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb, _ := newTestBreaker(100, 10)

	var wg sync.WaitGroup
	for i := range 1000 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !cb.Allow() {
				return
			}
			if i%2 == 0 {
				cb.RecordSuccess()
			} else {
				cb.RecordFailure()
			}
		}()
	}
	wg.Wait()

	assert.Contains(t, []State{StateClosed, StateOpen, StateHalfOpen}, cb.State())
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}
