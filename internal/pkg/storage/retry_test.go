package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	var slept []time.Duration
	b := Backoff{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Millisecond,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	attempts := 0
	err := b.Retry(context.Background(), "upload", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}

	// Delays double: base, then 2x base.
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("slept %d times, want %d", len(slept), len(want))
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestRetryExhaustionWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	b := Backoff{MaxAttempts: 3, BaseDelay: time.Millisecond, Sleep: func(time.Duration) {}}

	attempts := 0
	err := b.Retry(context.Background(), "upload", func() error {
		attempts++
		return cause
	})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if !errors.Is(err, cause) {
		t.Errorf("wrapped error must carry the last cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "upload failed after 3 attempts") {
		t.Errorf("error must name the operation and attempt count, got %q", err.Error())
	}
}

func TestRetryFirstAttemptSuccessSkipsSleep(t *testing.T) {
	slept := 0
	b := Backoff{MaxAttempts: 3, BaseDelay: time.Millisecond, Sleep: func(time.Duration) { slept++ }}

	if err := b.Retry(context.Background(), "upload", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slept != 0 {
		t.Errorf("slept %d times on immediate success, want 0", slept)
	}
}

func TestRetryStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := Backoff{MaxAttempts: 3, BaseDelay: time.Millisecond, Sleep: func(time.Duration) { cancel() }}

	attempts := 0
	err := b.Retry(ctx, "upload", func() error {
		attempts++
		return errors.New("transient")
	})
	if err == nil {
		t.Fatal("expected error when context is canceled mid-retry")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 after cancellation", attempts)
	}
}

func TestBackoffDelay(t *testing.T) {
	b := Backoff{BaseDelay: time.Second}
	for attempt, want := range map[int]time.Duration{
		1: time.Second,
		2: 2 * time.Second,
		3: 4 * time.Second,
	} {
		if got := b.Delay(attempt); got != want {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, want)
		}
	}
}
