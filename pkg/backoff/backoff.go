// Package backoff retries an operation with exponentially growing,
// jittered pauses.
package backoff

import (
	"context"
	"math/rand"
	"time"
)

// Policy describes how retries are spaced. The zero value is not usable;
// call Default or fill every field.
type Policy struct {
	// Initial is the pause before the first retry.
	Initial time.Duration
	// Max caps the pause between retries.
	Max time.Duration
	// Factor multiplies the pause after each failed attempt.
	Factor float64
	// Attempts is the total number of tries, including the first one.
	Attempts int
	// Jitter randomizes each pause by up to this fraction in either direction.
	Jitter float64
}

// Default is a policy suited to warming up against flaky HTTP feeds:
// six tries over roughly a minute.
func Default() Policy {
	return Policy{
		Initial:  1 * time.Second,
		Max:      30 * time.Second,
		Factor:   2.0,
		Attempts: 6,
		Jitter:   0.1,
	}
}

// Retry runs fn until it succeeds, the attempts are spent, or ctx is done.
// The last error from fn is returned when every attempt fails. fn always
// runs at least once, even with a non-positive Attempts.
func (p Policy) Retry(ctx context.Context, fn func(ctx context.Context) error) error {
	pause := p.Initial

	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if waitErr := sleep(ctx, p.jittered(pause)); waitErr != nil {
				return waitErr
			}

			pause = time.Duration(float64(pause) * p.Factor)
			if pause > p.Max {
				pause = p.Max
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}
	}

	return err
}

func (p Policy) jittered(pause time.Duration) time.Duration {
	offset := (rand.Float64()*2 - 1) * p.Jitter * float64(pause)
	result := time.Duration(float64(pause) + offset)
	if result < 0 {
		return 0
	}
	return result
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
