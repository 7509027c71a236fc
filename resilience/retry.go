package resilience

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/validation"
)

// RetryConfig bounds how often and how patiently a lookup is retried.
// The tagged fields load from the retry block of a config file; the
// callbacks are set in code.
type RetryConfig struct {
	// MaxAttempts counts the first call.
	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	BackoffFactor  float64       `yaml:"backoff_factor" mapstructure:"backoff_factor"`
	// Jitter spreads each wait by up to this fraction in either direction.
	Jitter float64 `yaml:"jitter" mapstructure:"jitter"`

	RetryIf func(error) bool                                    `yaml:"-" mapstructure:"-"`
	OnRetry func(attempt int, err error, backoff time.Duration) `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills zero-valued fields: three attempts starting at
// 100ms and doubling up to 10s.
func (c *RetryConfig) ApplyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2
	}
	if c.RetryIf == nil {
		c.RetryIf = DefaultRetryIf
	}
}

// Validate checks the configuration after defaults were applied.
func (c *RetryConfig) Validate() error {
	return validation.New().
		Check(c.MaxBackoff >= c.InitialBackoff, "retry.max_backoff",
			fmt.Sprintf("must not be less than initial_backoff (%s < %s)", c.MaxBackoff, c.InitialBackoff)).
		Between("retry.jitter", c.Jitter, 0, 1).
		Validate()
}

// DefaultRetryIf gives up on cancellation and on application errors not
// marked retryable. Anything else is assumed transient.
func DefaultRetryIf(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Retryable
	}
	return true
}

// Retry calls fn until it succeeds, fails with an error RetryIf rejects,
// or runs out of attempts. The last error is returned. Cancelling ctx
// stops the wait between attempts and returns ctx.Err().
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg.ApplyDefaults()

	var zero T
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if attempt >= cfg.MaxAttempts || !cfg.RetryIf(err) {
			return zero, err
		}

		wait := cfg.backoff(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
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

// backoff is the wait after the given attempt: InitialBackoff grown by
// BackoffFactor per attempt, jittered, never above MaxBackoff.
func (c RetryConfig) backoff(attempt int) time.Duration {
	d := float64(c.InitialBackoff) * math.Pow(c.BackoffFactor, float64(attempt-1))
	if c.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * c.Jitter
	}
	d = math.Min(d, float64(c.MaxBackoff))
	if d <= 0 {
		return c.InitialBackoff
	}
	return time.Duration(d)
}
