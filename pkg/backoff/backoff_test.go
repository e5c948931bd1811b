package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastPolicy(attempts int) Policy {
	return Policy{
		Initial:  time.Millisecond,
		Max:      5 * time.Millisecond,
		Factor:   2.0,
		Attempts: attempts,
		Jitter:   0.1,
	}
}

func TestRetrySucceedsImmediately(t *testing.T) {
	attempts := 0
	err := fastPolicy(3).Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryRecoversAfterFailures(t *testing.T) {
	attempts := 0
	err := fastPolicy(4).Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryReturnsLastError(t *testing.T) {
	sentinel := errors.New("still down")
	attempts := 0
	err := fastPolicy(3).Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, attempts)
}

func TestRetryRunsAtLeastOnce(t *testing.T) {
	sentinel := errors.New("ran and failed")
	attempts := 0
	err := Policy{}.Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel, "a zero-attempt policy must not report success for work that never ran")
	assert.Equal(t, 1, attempts)
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := Policy{
		Initial:  50 * time.Millisecond,
		Max:      time.Second,
		Factor:   2.0,
		Attempts: 5,
		Jitter:   0,
	}.Retry(ctx, func(ctx context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}
