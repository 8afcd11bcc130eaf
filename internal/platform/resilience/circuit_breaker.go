package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type CircuitBreakerConfig struct {
	Enabled bool

	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold int

	// OpenTimeout is how long the circuit stays open before probing again.
	OpenTimeout time.Duration

	// HalfOpenMaxReq is both the probe concurrency and the number of
	// successful probes needed to close the circuit.
	HalfOpenMaxReq int
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 15 * time.Second
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = 1
	}
	return c
}

// CircuitBreaker guards calls to the account service. A nil *CircuitBreaker
// lets every call through.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu            sync.Mutex
	state         CircuitState
	failures      int
	openedAt      time.Time
	probes        int
	probeSuccess  int
	onStateChange func(from, to CircuitState)
}

// NewCircuitBreaker returns nil when cfg is disabled.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &CircuitBreaker{
		cfg:   cfg.withDefaults(),
		now:   time.Now,
		state: CircuitStateClosed,
	}
}

// OnStateChange registers fn to run on every transition. fn is called with
// the breaker lock held and must not call back into the breaker.
func (b *CircuitBreaker) OnStateChange(fn func(from, to CircuitState)) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.onStateChange = fn
	b.mu.Unlock()
}

// Execute runs fn when the breaker allows it and records the outcome.
// Errors for which countsAsFailure returns false pass through without
// tripping the breaker.
func (b *CircuitBreaker) Execute(fn func() error, countsAsFailure func(error) bool) error {
	if b == nil {
		return fn()
	}
	if err := b.allow(); err != nil {
		return err
	}

	err := fn()
	b.record(err != nil && (countsAsFailure == nil || countsAsFailure(err)))
	return err
}

// State reports half_open once the open timeout has elapsed, even before the
// next call moves the breaker there.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.openElapsed() {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateOpen:
		if !b.openElapsed() {
			return ErrCircuitOpen
		}
		b.moveTo(CircuitStateHalfOpen)
		fallthrough
	case CircuitStateHalfOpen:
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *CircuitBreaker) record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		if !failed {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.moveTo(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		if failed {
			b.moveTo(CircuitStateOpen)
			return
		}
		b.probeSuccess++
		if b.probeSuccess >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			b.moveTo(CircuitStateClosed)
		}
	case CircuitStateOpen:
		if failed {
			b.openedAt = b.now()
		}
	}
}

func (b *CircuitBreaker) openElapsed() bool {
	return b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout
}

// moveTo resets the counters owned by the target state. Caller holds b.mu.
func (b *CircuitBreaker) moveTo(to CircuitState) {
	from := b.state
	b.state = to
	b.probes = 0
	b.probeSuccess = 0
	switch to {
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case CircuitStateOpen:
		b.openedAt = b.now()
	}

	if from != to && b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}
