package config

import (
	"testing"
	"time"
)

func baseConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:         "lmstudio",
			Model:            "hermes-3-llama-3.1-8b",
			BaseURL:          DefaultLMStudioBaseURL,
			Timeout:          60 * time.Second,
			MaxRetries:       3,
			Temperature:      0.7,
			UseSystemPrompts: true,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "html",
			SupportedFormats: []string{"json", "text", "html"},
			MaxFileSize:      10 * 1024 * 1024,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid lmstudio config",
			mutate: func(c *Config) {},
		},
		{
			name: "gemini without api key",
			mutate: func(c *Config) {
				c.AI.Provider = "gemini"
			},
			wantErr: true,
		},
		{
			name: "gemini with api key",
			mutate: func(c *Config) {
				c.AI.Provider = "gemini"
				c.AI.APIKey = "test-key"
			},
		},
		{
			name: "gemini without key but vault enabled",
			mutate: func(c *Config) {
				c.AI.Provider = "gemini"
				c.Vault.Enabled = true
			},
		},
		{
			name: "unsupported provider",
			mutate: func(c *Config) {
				c.AI.Provider = "openai"
			},
			wantErr: true,
		},
		{
			name: "zero timeout",
			mutate: func(c *Config) {
				c.AI.Timeout = 0
			},
			wantErr: true,
		},
		{
			name: "missing port",
			mutate: func(c *Config) {
				c.Server.Port = ""
			},
			wantErr: true,
		},
		{
			name: "default format not supported",
			mutate: func(c *Config) {
				c.App.DefaultFormat = "pdf"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetParseConfigFallsBackToGlobal(t *testing.T) {
	cfg := baseConfig()
	cfg.AI.CustomPrompts.SystemPrompts.ParseSections = "global override"

	parse := cfg.GetParseConfig()

	if parse.Provider != "lmstudio" {
		t.Errorf("Expected provider fallback 'lmstudio', got %q", parse.Provider)
	}
	if parse.Model != "hermes-3-llama-3.1-8b" {
		t.Errorf("Expected model fallback, got %q", parse.Model)
	}
	if parse.BaseURL != DefaultLMStudioBaseURL {
		t.Errorf("Expected base URL fallback, got %q", parse.BaseURL)
	}
	if parse.Timeout == nil || *parse.Timeout != 60*time.Second {
		t.Errorf("Expected timeout fallback of 60s, got %v", parse.Timeout)
	}
	if parse.UseSystemPrompts == nil || !*parse.UseSystemPrompts {
		t.Error("Expected use system prompts fallback to true")
	}
	if parse.CustomPrompts.SystemPrompts.ParseSections != "global override" {
		t.Error("Expected global custom prompt to flow into operation config")
	}
}

func TestGetQuestionsConfigKeepsOperationOverrides(t *testing.T) {
	cfg := baseConfig()
	retries := 5
	temp := float32(0.1)
	cfg.AI.Questions = OperationAIConfig{
		Model:       "qwen2.5-14b-instruct",
		MaxRetries:  &retries,
		Temperature: &temp,
	}

	questions := cfg.GetQuestionsConfig()

	if questions.Model != "qwen2.5-14b-instruct" {
		t.Errorf("Expected operation model to win, got %q", questions.Model)
	}
	if *questions.MaxRetries != 5 {
		t.Errorf("Expected operation max retries to win, got %d", *questions.MaxRetries)
	}
	if *questions.Temperature != 0.1 {
		t.Errorf("Expected operation temperature to win, got %f", *questions.Temperature)
	}
	// Unset fields still fall back
	if questions.Provider != "lmstudio" {
		t.Errorf("Expected provider fallback, got %q", questions.Provider)
	}
}
