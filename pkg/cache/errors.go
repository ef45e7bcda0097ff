package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. The remote backends (Redis,
// Mongo) wrap write errors with it so best-effort cache fills get a second
// chance before the entry is given up on.
type RetryableError struct{ Err error }

// Retryable wraps err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is marked transient anywhere in its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts bounds RetryWithBackoff. Cache writes are best effort; a
// backend that fails three times in a row is treated as down.
const retryAttempts = 3

// RetryWithBackoff runs fn up to retryAttempts times with doubling delay,
// starting at one second. Only errors marked with Retryable re-run; any
// other error, or a cancelled context, returns at once.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := time.Second
	var lastErr error

	for i := 0; i < retryAttempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < retryAttempts-1 {
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
