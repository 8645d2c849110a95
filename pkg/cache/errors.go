package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable means the Redis backend did not answer PING.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks a backend failure worth another attempt, such as a
// Redis server that is still starting.
type RetryableError struct{ Err error }

// Retryable marks err for retry. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the wait before the second attempt. It doubles each time.
var retryDelay = 200 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, fails without the Retryable
// mark, or has run three times. Cancelling ctx stops the wait early.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
