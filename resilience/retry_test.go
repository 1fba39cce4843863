package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestDo_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultPolicy(), func(int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_SucceedsAfterRetry(t *testing.T) {
	var attempts []int
	err := Do(context.Background(), fastPolicy(3), func(attempt int) error {
		attempts = append(attempts, attempt)
		if attempt < 3 {
			return errors.New("temporary")
		}
		return nil
	})
	if err != nil {
		t.Errorf("expected success, got %v", err)
	}
	if len(attempts) != 3 || attempts[2] != 3 {
		t.Errorf("unexpected attempts %v", attempts)
	}
}

func TestDo_ExceedsMaxAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(2), func(int) error {
		calls++
		return errors.New("always")
	})
	if err == nil || err.Error() != "always" {
		t.Errorf("expected last error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDo_PermanentStops(t *testing.T) {
	cause := errors.New("bad request")
	calls := 0
	err := Do(context.Background(), fastPolicy(5), func(int) error {
		calls++
		return Permanent(cause)
	})
	if err != cause {
		t.Errorf("expected unwrapped cause, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestDo_RetryIfFilter(t *testing.T) {
	retryable := errors.New("retryable")
	p := fastPolicy(5)
	p.RetryIf = func(err error) bool { return errors.Is(err, retryable) }

	calls := 0
	err := Do(context.Background(), p, func(int) error {
		calls++
		if calls == 1 {
			return retryable
		}
		return errors.New("fatal")
	})
	if err == nil || err.Error() != "fatal" {
		t.Errorf("expected fatal error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDo_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 5, InitialBackoff: time.Hour}
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := Do(ctx, p, func(int) error {
		calls++
		return errors.New("temporary")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_OnRetryCallback(t *testing.T) {
	var seen []int
	p := fastPolicy(3)
	p.OnRetry = func(attempt int, _ error, backoff time.Duration) {
		if backoff <= 0 {
			t.Errorf("expected positive backoff, got %v", backoff)
		}
		seen = append(seen, attempt)
	}
	_ = Do(context.Background(), p, func(int) error { return errors.New("x") })
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("unexpected retry callbacks %v", seen)
	}
}

func TestBackoffCapped(t *testing.T) {
	p := Policy{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, BackoffFactor: 10}.withDefaults()
	if got := p.backoff(1); got != time.Second {
		t.Errorf("attempt 1 backoff = %v", got)
	}
	if got := p.backoff(4); got != 3*time.Second {
		t.Errorf("attempt 4 backoff = %v, want cap", got)
	}
}
