package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Backoff is the retry policy applied to uploads. Sleep is injectable so
// tests can run with a fake clock.
type Backoff struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       func(time.Duration)
}

// DefaultBackoff returns the policy used by all backend clients.
func DefaultBackoff() Backoff {
	return Backoff{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

// Delay returns the exponential delay before the next attempt:
// BaseDelay * 2^(attempt-1).
func (b Backoff) Delay(attempt int) time.Duration {
	return b.BaseDelay * time.Duration(1<<(attempt-1))
}

// Retry runs fn up to MaxAttempts times, sleeping between attempts. After
// exhausting retries it returns a wrapped error naming the operation and
// carrying the last underlying cause.
func (b Backoff) Retry(ctx context.Context, operation string, fn func() error) error {
	sleep := b.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%s canceled after %d attempts: %w", operation, attempt-1, lastErr)
			}
			return fmt.Errorf("%s canceled: %w", operation, err)
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < b.MaxAttempts {
			delay := b.Delay(attempt)
			log.Warn().
				Err(err).
				Str("operation", operation).
				Int("attempt", attempt).
				Dur("delay", delay).
				Int("retries_left", b.MaxAttempts-attempt).
				Msg("Retrying after error")
			sleep(delay)
		}
	}

	log.Error().
		Err(lastErr).
		Str("operation", operation).
		Int("attempts", b.MaxAttempts).
		Msg("Operation failed after all retries")

	return fmt.Errorf("%s failed after %d attempts: %w", operation, b.MaxAttempts, lastErr)
}
