package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	var (
		mu          sync.Mutex
		transitions []CircuitState
	)
	b := NewCircuitBreaker("thesportsdb", CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      30 * time.Millisecond,
		HalfOpenMaxReq:   1,
	}, func(_ string, _, to CircuitState) {
		mu.Lock()
		transitions = append(transitions, to)
		mu.Unlock()
	})

	done, err := b.Allow()
	if err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}
	done(false)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	done, err = b.Allow()
	if err != nil {
		t.Fatalf("expected allow before threshold: %v", err)
	}
	done(false)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if _, err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	done, err = b.Allow()
	if err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}
	if _, err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second half-open request to be rejected, got %v", err)
	}

	done(true)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []CircuitState{CircuitStateOpen, CircuitStateHalfOpen, CircuitStateClosed}
	if len(transitions) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("expected transitions %v, got %v", want, transitions)
		}
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: false, FailureThreshold: 3, HalfOpenMaxReq: -1})
	want := CircuitBreakerConfig{Enabled: false, FailureThreshold: 3, OpenTimeout: 15 * time.Second, HalfOpenMaxReq: 2}
	if got != want {
		t.Fatalf("unexpected sportsdb breaker config: got=%+v want=%+v", got, want)
	}
}
