package ai

import (
	"context"
	goerrors "errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"cvlens/internal/config"
	"cvlens/internal/errors"
)

func TestRetryPolicyDelay(t *testing.T) {
	policy := DefaultRetryPolicy()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{3, 10 * time.Second}, // capped
		{4, 10 * time.Second},
	}

	for _, tt := range tests {
		if got := policy.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryPolicyExecuteExhaustsAttempts(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	calls := 0
	wantErr := goerrors.New("backend down")
	_, err := policy.Execute(context.Background(), logger, "parse", func() (string, error) {
		calls++
		return "", wantErr
	})

	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
	if !goerrors.Is(err, wantErr) {
		t.Errorf("expected wrapped last error, got %v", err)
	}
}

func TestRetryPolicyExecuteSucceedsAfterRetry(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	calls := 0
	result, err := policy.Execute(context.Background(), logger, "parse", func() (string, error) {
		calls++
		if calls < 2 {
			return "", goerrors.New("transient")
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" || calls != 2 {
		t.Errorf("got result %q after %d calls, want ok after 2", result, calls)
	}
}

func TestRetryPolicyExecuteStopsOnPermanentError(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)
	policy := RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
		Multiplier:  1,
		Retryable:   RetryableError,
	}

	calls := 0
	_, err := policy.Execute(context.Background(), logger, "parse", func() (string, error) {
		calls++
		return "", &httpStatusError{StatusCode: http.StatusUnauthorized, Endpoint: "chat/completions"}
	})

	if calls != 1 {
		t.Errorf("expected 1 attempt for a permanent error, got %d", calls)
	}
	if err == nil {
		t.Error("expected error")
	}
}

func TestRetryPolicyFromConfigRetriesAnyError(t *testing.T) {
	attempts := 2
	policy := RetryPolicyFromConfig(&config.OperationAIConfig{MaxRetries: &attempts})

	if policy.Retryable != nil {
		t.Fatal("config-derived policy must not classify errors; every failure is retried")
	}

	policy.BaseDelay = time.Millisecond
	policy.MaxDelay = time.Millisecond

	logger := errors.NewLogger(slog.LevelError)
	calls := 0
	_, err := policy.Execute(context.Background(), logger, "parse", func() (string, error) {
		calls++
		return "", goerrors.New("unexpected end of JSON input")
	})

	if calls != 2 {
		t.Errorf("expected 2 attempts for an unclassified error, got %d", calls)
	}
	if err == nil {
		t.Error("expected error")
	}
}

func TestRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", &httpStatusError{StatusCode: http.StatusTooManyRequests}, true},
		{"server error", &httpStatusError{StatusCode: http.StatusBadGateway}, true},
		{"unauthorized", &httpStatusError{StatusCode: http.StatusUnauthorized}, false},
		{"bad request", &httpStatusError{StatusCode: http.StatusBadRequest}, false},
		{"plain error", goerrors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RetryableError(tt.err); got != tt.want {
				t.Errorf("RetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"Hermes LLama 3.1 8B", "hermes-3-llama-3.1-8b"},
		{"QWEN 2.5 Instruct", "qwen2.5-14b-instruct"},
		{"unknown model", DefaultModel},
		{"", DefaultModel},
	}

	for _, tt := range tests {
		if got := ResolveModel(tt.display); got != tt.want {
			t.Errorf("ResolveModel(%q) = %q, want %q", tt.display, got, tt.want)
		}
	}
}
