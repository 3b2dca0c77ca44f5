package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSecretVersion(t *testing.T) {
	tests := []struct {
		name        string
		secret      *api.Secret
		expected    int64
		expectError bool
	}{
		{
			name: "version as int64",
			secret: &api.Secret{
				Data: map[string]any{
					"metadata": map[string]any{"version": int64(42)},
				},
			},
			expected: 42,
		},
		{
			name: "version as float64",
			secret: &api.Secret{
				Data: map[string]any{
					"metadata": map[string]any{"version": float64(42)},
				},
			},
			expected: 42,
		},
		{
			name: "version as string",
			secret: &api.Secret{
				Data: map[string]any{
					"metadata": map[string]any{"version": "42"},
				},
			},
			expected: 42,
		},
		{
			name: "invalid string version",
			secret: &api.Secret{
				Data: map[string]any{
					"metadata": map[string]any{"version": "not-a-number"},
				},
			},
			expectError: true,
		},
		{
			name: "missing metadata",
			secret: &api.Secret{
				Data: map[string]any{"data": map[string]any{}},
			},
			expectError: true,
		},
		{
			name: "missing version field",
			secret: &api.Secret{
				Data: map[string]any{
					"metadata": map[string]any{"other": "value"},
				},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := extractSecretVersion(tt.secret, "secret/test")

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"})
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file is trimmed", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		err := os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600)
		require.NoError(t, err)

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})
}

func TestApplyGeminiKeyToConfig(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			Parse:      OperationAIConfig{Provider: "gemini"},
			SpellCheck: OperationAIConfig{Provider: "lmstudio"},
			Questions:  OperationAIConfig{Provider: "gemini", APIKey: "existing-key"},
		},
	}

	applyGeminiKeyToConfig(config, "vault-gemini-key")

	assert.Equal(t, "vault-gemini-key", config.AI.APIKey)
	assert.Equal(t, "vault-gemini-key", config.AI.Parse.APIKey)
	// Non-gemini operations are left alone
	assert.Equal(t, "", config.AI.SpellCheck.APIKey)
	// Existing keys are never overwritten
	assert.Equal(t, "existing-key", config.AI.Questions.APIKey)
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short", "****"},
		{"12345678", "****"},
		{"secret-api-key-value", "secr****alue"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, maskSecret(tt.input))
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{
		Vault: VaultConfig{Enabled: false},
	}

	err := ApplyVaultSecrets(config, nil)
	assert.NoError(t, err)
}
