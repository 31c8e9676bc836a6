// Package network provides resilience primitives for the agent's outbound
// API calls.
package network

import (
	"fmt"
	"sync"
	"time"
)

// CircuitState is the current mode of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed lets requests through.
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects requests until the reset timeout elapses.
	CircuitOpen
	// CircuitHalfOpen lets a single probe request through.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker guards one upstream API. After maxFailures consecutive
// failures the circuit opens; after resetTimeout a single probe is allowed,
// and its outcome decides whether the circuit closes again.
type CircuitBreaker struct {
	name         string
	maxFailures  int
	resetTimeout time.Duration

	mu            sync.Mutex
	state         CircuitState
	failures      int
	lastFailTime  time.Time
	probeInFlight bool

	onStateChange func(name string, from, to CircuitState)
}

// NewCircuitBreaker creates a closed breaker for the named API.
func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

// SetStateChangeHandler registers a callback invoked on every transition.
func (cb *CircuitBreaker) SetStateChangeHandler(handler func(name string, from, to CircuitState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = handler
}

// Call runs fn if the circuit allows it and records the outcome.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.allow() {
		return fmt.Errorf("%s: circuit open, upstream considered down", cb.name)
	}

	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true

	case CircuitOpen:
		if time.Since(cb.lastFailTime) > cb.resetTimeout {
			cb.transition(CircuitHalfOpen)
			cb.probeInFlight = true
			return true
		}
		return false

	case CircuitHalfOpen:
		if !cb.probeInFlight {
			cb.probeInFlight = true
			return true
		}
		return false
	}
	return false
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.lastFailTime = time.Now()

		switch cb.state {
		case CircuitClosed:
			if cb.failures >= cb.maxFailures {
				cb.transition(CircuitOpen)
			}
		case CircuitHalfOpen:
			// failed probe reopens the circuit
			cb.probeInFlight = false
			cb.transition(CircuitOpen)
		}
		return
	}

	switch cb.state {
	case CircuitHalfOpen:
		cb.failures = 0
		cb.probeInFlight = false
		cb.transition(CircuitClosed)
	case CircuitClosed:
		cb.failures = 0
	}
}

// transition must be called with cb.mu held.
func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to

	if cb.onStateChange != nil {
		// handler runs outside the lock
		go cb.onStateChange(cb.name, from, to)
	}
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset forces the breaker back to closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.probeInFlight = false
	cb.lastFailTime = time.Time{}
	cb.state = CircuitClosed
}
