package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"cvlens/internal/config"
	"cvlens/internal/errors"
)

// LMStudioProvider talks to an LM Studio server over its OpenAI-compatible
// chat completions API. This is the default backend: the parsing pipeline is
// built around locally hosted models.
type LMStudioProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	config     *config.OperationAIConfig
	logger     *errors.Logger
}

var _ Provider = (*LMStudioProvider)(nil)

// NewLMStudioProvider creates a provider for one pipeline operation.
func NewLMStudioProvider(cfg *config.OperationAIConfig, logger *errors.Logger) (*LMStudioProvider, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultLMStudioBaseURL
	}

	return &LMStudioProvider{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single chat completion request and returns the raw model
// text. The resume (or other content) is appended to the user prompt so the
// instruction and the material travel in one user turn.
func (p *LMStudioProvider) Complete(ctx context.Context, model, systemPrompt, userPrompt, content string) (string, error) {
	userContent := userPrompt
	if content != "" {
		userContent = userPrompt + "\n\n" + content
	}

	messages := make([]chatMessage, 0, 2)
	if *p.config.UseSystemPrompts && systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userContent})

	reqBody := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: *p.config.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.NewAIError("Failed to encode completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", errors.NewAIError("Failed to build completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("LM Studio connection failed (is the server running?): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &httpStatusError{StatusCode: resp.StatusCode, Endpoint: "chat/completions"}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.NewAIError("Failed to decode completion response", err)
	}

	if result.Error.Message != "" {
		return "", errors.NewAIError("LM Studio error: "+result.Error.Message, nil)
	}
	if len(result.Choices) == 0 {
		return "", errors.NewAIError("No choices in completion response", nil)
	}

	p.logger.Debug("Completion received",
		"provider", "lmstudio",
		"model", model,
		"prompt_tokens", result.Usage.PromptTokens,
		"completion_tokens", result.Usage.CompletionTokens)

	return result.Choices[0].Message.Content, nil
}

// ModelInfo checks whether the model is loaded by listing the server's models.
func (p *LMStudioProvider) ModelInfo(ctx context.Context, model string) *ModelInfo {
	info := &ModelInfo{Name: model, Available: false}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		info.Error = fmt.Sprintf("Failed to list models: %v", err)
		p.logger.Warn("Model availability check failed",
			"model", model, "provider", "lmstudio", "error", err.Error())
		return info
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		info.Error = fmt.Sprintf("model list returned status %d", resp.StatusCode)
		return info
	}

	var list struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		info.Error = fmt.Sprintf("Failed to decode model list: %v", err)
		return info
	}

	for _, m := range list.Data {
		if m.ID == model {
			info.Available = true
			info.DisplayName = m.ID
			break
		}
	}
	if !info.Available {
		info.Error = fmt.Sprintf("model %q not loaded on server", model)
	}
	return info
}

// Close implements Provider. The HTTP client holds no per-request state.
func (p *LMStudioProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

// httpStatusError reports a non-200 response so the retry classifier can
// distinguish transient server trouble from permanent request errors.
type httpStatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}
