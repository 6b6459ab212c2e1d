package resilience

import (
	"errors"

	"github.com/sony/gobreaker"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker protects an upstream dependency. Callers ask Allow before each
// request and report the outcome through the returned done func.
type CircuitBreaker struct {
	breaker *gobreaker.TwoStepCircuitBreaker
}

// StateChangeFunc is notified on every transition.
type StateChangeFunc func(name string, from, to CircuitState)

func NewCircuitBreaker(name string, cfg CircuitBreakerConfig, onChange StateChangeFunc) *CircuitBreaker {
	cfg = NormalizeCircuitBreakerConfig(cfg)
	threshold := uint32(cfg.FailureThreshold)

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: uint32(cfg.HalfOpenMaxReq),
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	}
	if onChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			onChange(name, mapState(from), mapState(to))
		}
	}

	return &CircuitBreaker{breaker: gobreaker.NewTwoStepCircuitBreaker(settings)}
}

// Allow returns ErrCircuitOpen while the breaker rejects traffic. On success the
// caller must invoke done exactly once.
func (b *CircuitBreaker) Allow() (done func(success bool), err error) {
	done, err = b.breaker.Allow()
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		return nil, err
	}
	return done, nil
}

func (b *CircuitBreaker) State() CircuitState {
	return mapState(b.breaker.State())
}

func (b *CircuitBreaker) Name() string {
	return b.breaker.Name()
}

func mapState(state gobreaker.State) CircuitState {
	switch state {
	case gobreaker.StateOpen:
		return CircuitStateOpen
	case gobreaker.StateHalfOpen:
		return CircuitStateHalfOpen
	default:
		return CircuitStateClosed
	}
}
