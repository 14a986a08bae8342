// Package retry runs an operation under an exponential backoff policy.
package retry

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes how many times to try an operation and how long to wait
// between attempts. The n-th wait is BaseDelay * Multiplier^(n-1).
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64

	// Retryable reports whether a failed attempt may be retried. A nil
	// Retryable retries every error.
	Retryable func(error) bool

	// OnRetry is called before each wait with the failed attempt's error.
	OnRetry func(err error, wait time.Duration)
}

// DefaultPolicy returns three attempts with 1s then 2s waits.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Multiplier:  2,
		Retryable:   retryable,
	}
}

// Do runs op until it succeeds, fails with a non-retryable error, the
// attempts are used up, or ctx is done. It returns the number of attempts
// made and the last error.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) (int, error) {
	return p.do(ctx, op, nil)
}

func (p Policy) do(ctx context.Context, op func(ctx context.Context) error, timer backoff.Timer) (int, error) {
	attempts := 0
	operation := func() error {
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Printf("[retry] attempt %d failed, retrying in %s: %v", attempts, wait, err)
		if p.OnRetry != nil {
			p.OnRetry(err, wait)
		}
	}

	err := backoff.RetryNotifyWithTimer(operation, p.backOff(ctx), notify, timer)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return attempts, perm.Err
	}
	return attempts, err
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	if b.InitialInterval <= 0 {
		b.InitialInterval = time.Second
	}
	b.Multiplier = p.Multiplier
	if b.Multiplier < 1 {
		b.Multiplier = 1
	}
	b.RandomizationFactor = 0
	b.MaxInterval = time.Hour
	b.MaxElapsedTime = 0
	b.Reset()

	retries := p.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}
