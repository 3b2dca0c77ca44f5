package ai

import (
	"context"
	"fmt"

	"cvlens/internal/config"
	"cvlens/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Service is the completion client the pipeline stages talk to. It layers
// retry, an optional circuit breaker, and tracing over a concrete provider.
type Service struct {
	Provider  Provider // exported for access from the server package
	operation string
	retry     RetryPolicy
	breaker   *CompletionBreaker
	config    *config.OperationAIConfig
	logger    *errors.Logger
}

var _ CompletionClient = (*Service)(nil)

// NewService creates a completion service for one pipeline operation
// (parse, spellcheck, questions).
func NewService(ctx context.Context, cfg *config.OperationAIConfig, operation string, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation", operation,
		"model", cfg.Model,
		"base_url", cfg.BaseURL,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var provider Provider
	var err error

	switch cfg.Provider {
	case "lmstudio", "":
		provider, err = NewLMStudioProvider(cfg, logger)
	case "gemini":
		provider, err = NewGeminiProvider(ctx, cfg, logger)
	default:
		return nil, errors.NewConfigError(
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
	if err != nil {
		return nil, errors.NewAIError("Failed to create AI provider", err)
	}

	return &Service{
		Provider:  provider,
		operation: operation,
		retry:     RetryPolicyFromConfig(cfg),
		breaker:   NewCompletionBreaker(operation, cfg.CircuitBreaker, logger),
		config:    cfg,
		logger:    logger,
	}, nil
}

// NewServiceWithProvider builds a service around an existing provider.
// Used by tests and by callers that manage provider lifecycle themselves.
func NewServiceWithProvider(provider Provider, operation string, retry RetryPolicy, logger *errors.Logger) *Service {
	return &Service{
		Provider:  provider,
		operation: operation,
		retry:     retry,
		logger:    logger,
	}
}

// RetryPolicyFromConfig derives the retry policy for an operation,
// falling back to the standard pipeline policy. The policy retries every
// failure: a malformed completion is as worth a second attempt as a
// network error, and the attempt cap bounds the damage either way.
func RetryPolicyFromConfig(cfg *config.OperationAIConfig) RetryPolicy {
	policy := DefaultRetryPolicy()
	if cfg.MaxRetries != nil {
		policy.MaxAttempts = *cfg.MaxRetries
	}
	return policy
}

// Complete implements CompletionClient with retry and breaker applied.
func (s *Service) Complete(ctx context.Context, model, systemPrompt, userPrompt, content string) (string, error) {
	providerName := "custom"
	if s.config != nil {
		if model == "" {
			model = s.config.Model
		}
		providerName = s.config.Provider
	}

	tracer := otel.Tracer("cvlens.ai")
	ctx, span := tracer.Start(ctx, "completion."+s.operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", providerName),
		attribute.String("ai.model", model),
		attribute.Int("ai.content_length", len(content)),
	)

	result, err := s.breaker.Execute(func() (string, error) {
		return s.retry.Execute(ctx, s.logger, s.operation, func() (string, error) {
			return s.Provider.Complete(ctx, model, systemPrompt, userPrompt, content)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("ai.response_length", len(result)),
	)
	return result, nil
}

// ModelInfo returns availability information for health checks.
func (s *Service) ModelInfo(ctx context.Context) *ModelInfo {
	model := ""
	if s.config != nil {
		model = s.config.Model
	}
	return s.Provider.ModelInfo(ctx, model)
}

// BreakerStats exposes circuit breaker state for the stats endpoint.
func (s *Service) BreakerStats() map[string]any {
	return s.breaker.Stats()
}

// Close releases the underlying provider.
func (s *Service) Close() error {
	return s.Provider.Close()
}
