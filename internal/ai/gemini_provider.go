package ai

import (
	"context"
	"fmt"

	"cvlens/internal/config"
	"cvlens/internal/errors"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider on top of Google Gemini. It is the
// hosted alternative to the local LM Studio backend; the pipeline treats
// both identically through the Provider interface.
type GeminiProvider struct {
	client *genai.Client
	config *config.OperationAIConfig
	logger *errors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider for one pipeline operation.
func NewGeminiProvider(ctx context.Context, cfg *config.OperationAIConfig, logger *errors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewAIError("Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

// Complete sends one generation request and returns the raw model text.
// Prompts stay plain-text here: response shaping is the repair layer's job,
// and the LM Studio backend has no schema support to mirror.
func (g *GeminiProvider) Complete(ctx context.Context, model, systemPrompt, userPrompt, content string) (string, error) {
	userContent := userPrompt
	if content != "" {
		userContent = userPrompt + "\n\n" + content
	}

	genaiConfig := &genai.GenerateContentConfig{}
	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}
	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(userContent), genaiConfig)
	if err != nil {
		return "", err
	}

	if usage := result.UsageMetadata; usage != nil {
		g.logger.Debug("Completion received",
			"provider", "gemini",
			"model", model,
			"prompt_tokens", usage.PromptTokenCount,
			"completion_tokens", usage.CandidatesTokenCount)
	}

	return result.Text(), nil
}

// ModelInfo checks the availability of the configured model.
func (g *GeminiProvider) ModelInfo(ctx context.Context, model string) *ModelInfo {
	info := &ModelInfo{Name: model, Available: false}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	m, err := g.client.Models.Get(checkCtx, model, &genai.GetModelConfig{})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", model, "provider", "gemini", "error", err.Error())
		return info
	}

	info.Available = true
	if m.DisplayName != "" {
		info.DisplayName = m.DisplayName
	}
	if m.Version != "" {
		info.Version = m.Version
	}
	return info
}

// Close implements Provider.
func (g *GeminiProvider) Close() error {
	// The genai client has no Close in single-shot usage.
	return nil
}
