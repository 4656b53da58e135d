package reliability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil once the operation succeeds", func(t *testing.T) {
		attempts := 0
		err := Retry(ctx, NewFixedDelay(time.Millisecond, 5), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		attempts := 0
		cause := errors.New("still broken")
		err := Retry(ctx, NewFixedDelay(time.Millisecond, 2), func() error {
			attempts++
			return cause
		})

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 3, attempts) // initial try plus two retries
	})

	t.Run("stops immediately on a non-retryable error", func(t *testing.T) {
		attempts := 0
		err := Retry(ctx, NewFixedDelay(time.Millisecond, 5), func() error {
			attempts++
			return RetryableError{Err: errors.New("bad request"), Retryable: false}
		})

		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := Retry(cancelled, NewFixedDelay(time.Second, 5), func() error {
			return errors.New("transient")
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExponentialBackoff(t *testing.T) {
	t.Run("delay grows and caps at the max interval", func(t *testing.T) {
		policy := NewExponentialBackoff(100*time.Millisecond, time.Second, 2.0, 10)
		policy.Jitter = false

		assert.Equal(t, 100*time.Millisecond, policy.NextDelay(0))
		assert.Equal(t, 200*time.Millisecond, policy.NextDelay(1))
		assert.Equal(t, 400*time.Millisecond, policy.NextDelay(2))
		assert.Equal(t, time.Second, policy.NextDelay(5))
	})

	t.Run("ShouldRetry stops at the attempt limit", func(t *testing.T) {
		policy := NewExponentialBackoff(time.Millisecond, time.Second, 2.0, 2)
		policy.Jitter = false

		retry, _ := policy.ShouldRetry(0, errors.New("transient"))
		assert.True(t, retry)
		retry, _ = policy.ShouldRetry(2, errors.New("transient"))
		assert.False(t, retry)
	})
}

func TestRetryableError(t *testing.T) {
	t.Run("wraps the underlying error", func(t *testing.T) {
		cause := errors.New("boom")
		err := RetryableError{Err: cause, Retryable: true}

		assert.Equal(t, "boom", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.True(t, err.IsRetryable())
	})
}
