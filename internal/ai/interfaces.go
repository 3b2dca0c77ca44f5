package ai

import (
	"context"
)

// CompletionClient sends a system/user prompt pair plus content to an LLM
// chat endpoint and returns the raw free-text response. The response is
// untrusted and possibly malformed; callers repair it downstream.
type CompletionClient interface {
	Complete(ctx context.Context, model, systemPrompt, userPrompt, content string) (string, error)
}

// Provider is a concrete LLM backend.
type Provider interface {
	CompletionClient
	ModelInfo(ctx context.Context, model string) *ModelInfo
	Close() error
}

// ModelInfo represents availability information about an LLM model.
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
