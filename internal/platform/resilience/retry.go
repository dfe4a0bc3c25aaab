package resilience

import (
	"context"
	"time"
)

type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// Retry runs fn up to Attempts times with linear backoff while retryable
// reports true for the returned error.
func Retry(ctx context.Context, policy RetryPolicy, retryable func(error) bool, fn func(context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt == attempts || retryable == nil || !retryable(err) {
			return err
		}

		timer := time.NewTimer(time.Duration(attempt) * policy.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
