// Package retry re-runs operations that failed to reach the database.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/internal/debug"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts   int           // Maximum number of attempts
	InitialDelay  time.Duration // Delay before the second attempt
	MaxDelay      time.Duration // Upper bound for any delay
	BackoffFactor float64       // Exponential backoff multiplier
	Jitter        bool          // Randomize each delay by ±25%
}

// DefaultConfig returns default retry configuration
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   5,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// Option customizes Do.
type Option func(*Config)

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithInitialDelay sets the first delay.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay caps the delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithBackoffFactor sets the exponential backoff factor.
func WithBackoffFactor(f float64) Option {
	return func(c *Config) {
		c.BackoffFactor = f
	}
}

// WithoutJitter disables delay randomization.
func WithoutJitter() Option {
	return func(c *Config) {
		c.Jitter = false
	}
}

// Retryable reports whether err is worth another attempt. Only connection
// failures are; statements that reached the backend are never replayed.
func Retryable(err error) bool {
	return errors.Is(err, dberr.ErrConnection) && !errors.Is(err, context.Canceled)
}

// Do calls fn until it succeeds, returns a non retryable error, the
// attempts run out or ctx is done.
func Do(ctx context.Context, fn func(ctx context.Context) error, opts ...Option) error {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !Retryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := delay
		if cfg.Jitter && delay > 0 {
			spread := int64(delay) / 2
			if spread > 0 {
				wait = delay - time.Duration(spread/2) + time.Duration(rand.Int64N(spread))
			}
		}
		debug.Debug("retrying", "attempt", attempt, "wait", wait, "error", err)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return dberr.Connection("retry", ctx.Err())
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// DoWithResult is Do for functions returning a value.
func DoWithResult[T any](ctx context.Context, fn func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	var result T
	err := Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	}, opts...)
	return result, err
}
