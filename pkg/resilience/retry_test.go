package resilience

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func fastConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "connect", fastConfig(4), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryExhaustsBudget(t *testing.T) {
	refused := errors.New("connection refused")
	calls := 0
	err := Retry(context.Background(), "connect", fastConfig(3), func() error {
		calls++
		return refused
	})
	if !errors.Is(err, refused) {
		t.Fatalf("err = %v, want wrapped %v", err, refused)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !strings.Contains(err.Error(), "connect") {
		t.Errorf("error %q does not name the operation", err)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, "connect", fastConfig(10), func() error {
		calls++
		cancel()
		return errors.New("connection refused")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDelayBoundedByMaxDelay(t *testing.T) {
	cfg := RetryConfig{
		InitialDelay:   time.Second,
		MaxDelay:       2 * time.Second,
		Multiplier:     10,
		JitterFraction: 0.1,
	}.withDefaults()
	for attempt := 1; attempt <= 6; attempt++ {
		if d := cfg.delay(attempt); d > cfg.MaxDelay {
			t.Errorf("delay(%d) = %v exceeds cap %v", attempt, d, cfg.MaxDelay)
		}
	}
}
