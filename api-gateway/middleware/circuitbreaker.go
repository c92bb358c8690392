package middleware

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/commodity-tracker/pkg/logger"
)

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"
)

// halfOpenSuccesses closes a half-open circuit
const halfOpenSuccesses = 3

// ErrCircuitOpen is returned by Call while the circuit rejects requests
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker opens after maxFailures consecutive failures and probes the
// service again once openTimeout has passed
type CircuitBreaker struct {
	name            string
	maxFailures     int
	openTimeout     time.Duration
	state           CircuitState
	failures        int
	successCount    int
	lastFailureTime time.Time
	lastStateChange time.Time
	now             func() time.Time
	mu              sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(name string, maxFailures int, openTimeout time.Duration) *CircuitBreaker {
	if maxFailures <= 0 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		name:            name,
		maxFailures:     maxFailures,
		openTimeout:     openTimeout,
		state:           StateClosed,
		lastStateChange: time.Now(),
		now:             time.Now,
	}
}

// Call runs fn unless the circuit is open and records its outcome
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.allow() {
		return fmt.Errorf("%w for %s", ErrCircuitOpen, cb.name)
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen && cb.now().Sub(cb.lastStateChange) >= cb.openTimeout {
		cb.transition(StateHalfOpen)
		cb.successCount = 0
	}
	return cb.state != StateOpen
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	cb.lastFailureTime = cb.now()

	switch {
	case cb.state == StateHalfOpen:
		cb.transition(StateOpen)
	case cb.failures >= cb.maxFailures && cb.state == StateClosed:
		cb.transition(StateOpen)
		logger.Logger.Error().
			Str("circuit", cb.name).
			Int("failures", cb.failures).
			Int("threshold", cb.maxFailures).
			Msg("Circuit breaker opened")
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= halfOpenSuccesses {
			cb.failures = 0
			cb.successCount = 0
			cb.transition(StateClosed)
		}
	case StateClosed:
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	cb.state = to
	cb.lastStateChange = cb.now()
	logger.Logger.Info().
		Str("circuit", cb.name).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Circuit breaker state changed")
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns circuit breaker statistics
func (cb *CircuitBreaker) Stats() fiber.Map {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return fiber.Map{
		"name":              cb.name,
		"state":             cb.state,
		"failures":          cb.failures,
		"max_failures":      cb.maxFailures,
		"last_failure_time": cb.lastFailureTime,
		"last_state_change": cb.lastStateChange,
	}
}

// CircuitBreakerManager hands out one breaker per backend service
type CircuitBreakerManager struct {
	maxFailures int
	openTimeout time.Duration
	breakers    map[string]*CircuitBreaker
	mu          sync.Mutex
}

// NewCircuitBreakerManager creates a manager whose breakers share one policy
func NewCircuitBreakerManager(maxFailures int, openTimeout time.Duration) *CircuitBreakerManager {
	return &CircuitBreakerManager{
		maxFailures: maxFailures,
		openTimeout: openTimeout,
		breakers:    make(map[string]*CircuitBreaker),
	}
}

// GetOrCreate gets or creates a circuit breaker for a service
func (m *CircuitBreakerManager) GetOrCreate(serviceName string) *CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cb, ok := m.breakers[serviceName]; ok {
		return cb
	}
	cb := NewCircuitBreaker(serviceName, m.maxFailures, m.openTimeout)
	m.breakers[serviceName] = cb
	return cb
}

// AllStats returns stats for every breaker created so far
func (m *CircuitBreakerManager) AllStats() fiber.Map {
	m.mu.Lock()
	breakers := make(map[string]*CircuitBreaker, len(m.breakers))
	for name, cb := range m.breakers {
		breakers[name] = cb
	}
	m.mu.Unlock()

	stats := fiber.Map{}
	for name, cb := range breakers {
		stats[name] = cb.Stats()
	}
	return stats
}

// CircuitBreakerMiddleware guards the backend picked by resolve. Requests
// resolve maps to "" pass through unguarded. A 5xx answer counts as a failure.
func CircuitBreakerMiddleware(manager *CircuitBreakerManager, resolve func(path string) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		serviceName := resolve(c.Path())
		if serviceName == "" {
			return c.Next()
		}

		cb := manager.GetOrCreate(serviceName)

		var responseErr error
		err := cb.Call(func() error {
			responseErr = c.Next()

			status := c.Response().StatusCode()
			var fe *fiber.Error
			if errors.As(responseErr, &fe) {
				status = fe.Code
			} else if responseErr != nil {
				status = fiber.StatusInternalServerError
			}
			if status >= fiber.StatusInternalServerError {
				return fmt.Errorf("downstream service error: %d", status)
			}
			return nil
		})

		if errors.Is(err, ErrCircuitOpen) {
			logger.WithContext(c.UserContext()).Warn().
				Str("service", serviceName).
				Str("path", c.Path()).
				Msg("Circuit breaker is open - request blocked")

			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%.0f", manager.openTimeout.Seconds()))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"error":   "Service temporarily unavailable",
				"service": serviceName,
			})
		}

		return responseErr
	}
}
