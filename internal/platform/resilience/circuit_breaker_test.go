package resilience

import (
	"errors"
	"testing"
	"time"
)

var errDown = errors.New("dependency down")

func newTestBreaker(cfg CircuitBreakerConfig) (*CircuitBreaker, *time.Time) {
	cfg.Enabled = true
	b := NewCircuitBreaker("mailer", cfg)
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b, now := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1})

	var transitions []CircuitState
	b.OnStateChange(func(name string, _, to CircuitState) {
		if name != "mailer" {
			t.Errorf("unexpected breaker name %q", name)
		}
		transitions = append(transitions, to)
	})

	_ = b.Do(func() error { return errDown }, nil)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	_ = b.Do(func() error { return errDown }, nil)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	calls := 0
	err := b.Do(func() error { calls++; return nil }, nil)
	if !errors.Is(err, ErrCircuitOpen) || calls != 0 {
		t.Fatalf("expected rejection without call, err=%v calls=%d", err, calls)
	}

	*now = now.Add(6 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", state)
	}
	if err := b.Do(func() error { return nil }, nil); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []CircuitState{CircuitStateOpen, CircuitStateHalfOpen, CircuitStateClosed}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", transitions, want)
		}
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, now := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1})

	_ = b.Do(func() error { return errDown }, nil)
	*now = now.Add(15 * time.Second)

	if err := b.Do(func() error { return errDown }, nil); !errors.Is(err, errDown) {
		t.Fatalf("expected probe to run and fail, got %v", err)
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failed probe, got %s", state)
	}
}

func TestCircuitBreaker_IgnoresNonFailures(t *testing.T) {
	b, _ := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1})
	rejected := errors.New("422 from upstream")

	for range 3 {
		err := b.Do(func() error { return rejected }, func(err error) bool { return !errors.Is(err, rejected) })
		if !errors.Is(err, rejected) {
			t.Fatalf("expected upstream error passthrough, got %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("client errors must not trip the breaker, got %s", state)
	}
}

func TestCircuitBreaker_DisabledIsNil(t *testing.T) {
	b := NewCircuitBreaker("gotrue", CircuitBreakerConfig{})
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	calls := 0
	for range 10 {
		_ = b.Do(func() error { calls++; return errDown }, nil)
	}
	if calls != 10 || b.State() != CircuitStateClosed {
		t.Fatalf("nil breaker must pass every call through, calls=%d", calls)
	}
}
