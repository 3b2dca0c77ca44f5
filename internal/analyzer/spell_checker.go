package analyzer

import (
	"context"
	"strings"

	"cvlens/internal/ai"
	"cvlens/internal/errors"
	"cvlens/internal/parser"
	"cvlens/internal/types"
)

// SpellChecker flags misspellings via the LLM. It is strictly best-effort:
// every failure path degrades to an empty correction list.
type SpellChecker struct {
	client       ai.CompletionClient
	systemPrompt string
	userPrompt   string
	logger       *errors.Logger
}

func NewSpellChecker(client ai.CompletionClient, logger *errors.Logger) *SpellChecker {
	return &SpellChecker{
		client:       client,
		systemPrompt: ai.DefaultSystemPrompts.SpellCheck,
		userPrompt:   ai.DefaultUserPrompts.SpellCheck,
		logger:       logger,
	}
}

// NewSpellCheckerWithPrompts creates a checker with explicit prompts.
func NewSpellCheckerWithPrompts(client ai.CompletionClient, systemPrompt, userPrompt string, logger *errors.Logger) *SpellChecker {
	return &SpellChecker{
		client:       client,
		systemPrompt: systemPrompt,
		userPrompt:   userPrompt,
		logger:       logger,
	}
}

// Check returns the corrections the model flagged, dropping pairs whose
// incorrect and correct sides are equal after trimming.
func (c *SpellChecker) Check(ctx context.Context, text, model string) []types.SpellingCorrection {
	response, err := c.client.Complete(ctx, model, c.systemPrompt, c.userPrompt, text)
	if err != nil {
		c.logger.Warn("Spell check completion failed", "error", err.Error())
		return nil
	}

	data, err := parser.RepairJSON(response)
	if err != nil {
		c.logger.Warn("Spell check response could not be parsed", "error", err.Error())
		return nil
	}

	raw, _ := data["misspelled_words"].([]any)
	var corrections []types.SpellingCorrection
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		incorrect, _ := m["incorrect_word"].(string)
		correct, _ := m["correct_word"].(string)
		if strings.TrimSpace(incorrect) == "" {
			continue
		}
		if strings.TrimSpace(incorrect) == strings.TrimSpace(correct) {
			continue
		}
		corrections = append(corrections, types.SpellingCorrection{
			Incorrect: incorrect,
			Correct:   correct,
		})
	}
	return corrections
}
