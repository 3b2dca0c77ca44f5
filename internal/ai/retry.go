package ai

import (
	"context"
	"fmt"
	"time"

	"cvlens/internal/errors"
)

// RetryPolicy describes how a completion call is retried. It is an explicit
// value injected into the completion service so retry behavior stays
// independently testable.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration
	// Multiplier scales the exponential term.
	Multiplier float64
	// Retryable classifies errors; nil means every error is retried.
	Retryable func(error) bool
}

// DefaultRetryPolicy returns the pipeline's standard policy: 3 attempts,
// exponential backoff starting at 4 seconds capped at 10, multiplier 1,
// no jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   4 * time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  1,
	}
}

// Delay returns how long to wait after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(p.BaseDelay) * p.Multiplier
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	d := time.Duration(delay)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Execute runs fn with the policy. On exhaustion the last error is returned
// as-is so callers can inspect the underlying failure.
func (p RetryPolicy) Execute(ctx context.Context, logger *errors.Logger, operation string, fn func() (string, error)) (string, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			logger.Warn("Retrying completion",
				"operation", operation,
				"attempt", attempt,
				"max_attempts", attempts,
				"error", lastErr.Error())

			select {
			case <-time.After(p.Delay(attempt - 1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 1 {
				logger.Info("Completion succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt)
			}
			return result, nil
		}

		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	logger.LogError(lastErr, "Completion failed after all retry attempts",
		"operation", operation,
		"max_attempts", attempts)

	return "", fmt.Errorf("operation %q exhausted %d attempts: %w", operation, attempts, lastErr)
}
