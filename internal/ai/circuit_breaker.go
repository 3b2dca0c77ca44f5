package ai

import (
	"cvlens/internal/config"
	"cvlens/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// CompletionBreaker wraps completion calls with a circuit breaker. A nil
// breaker means the breaker is disabled and calls pass straight through;
// the pipeline's documented behavior is plain bounded retry, so the breaker
// is off unless configuration enables it.
type CompletionBreaker struct {
	cb *gobreaker.CircuitBreaker[string]
}

// NewCompletionBreaker creates a breaker for one pipeline operation, or nil
// when disabled.
func NewCompletionBreaker(operation string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *CompletionBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        "completion-" + operation,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation", operation,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &CompletionBreaker{
		cb: gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Execute runs fn under the breaker, or directly when disabled.
func (b *CompletionBreaker) Execute(fn func() (string, error)) (string, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats returns breaker statistics for the stats endpoint.
func (b *CompletionBreaker) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}

	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy reports whether the breaker is closed (or disabled).
func (b *CompletionBreaker) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
