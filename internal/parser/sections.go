package parser

import (
	"context"
	goerrors "errors"
	"strings"

	"cvlens/internal/ai"
	"cvlens/internal/errors"
	"cvlens/internal/types"
)

// SectionExtractor turns normalized resume text into the canonical section
// map by round-tripping it through the LLM and repairing the response.
type SectionExtractor struct {
	client       ai.CompletionClient
	systemPrompt string
	userPrompt   string
	logger       *errors.Logger
}

// NewSectionExtractor creates an extractor using the default prompts.
func NewSectionExtractor(client ai.CompletionClient, logger *errors.Logger) *SectionExtractor {
	return &SectionExtractor{
		client:       client,
		systemPrompt: ai.DefaultSystemPrompts.ParseSections,
		userPrompt:   ai.DefaultUserPrompts.ParseSections,
		logger:       logger,
	}
}

// NewSectionExtractorWithPrompts creates an extractor with explicit prompts,
// used when prompt files or config overrides are in play.
func NewSectionExtractorWithPrompts(client ai.CompletionClient, systemPrompt, userPrompt string, logger *errors.Logger) *SectionExtractor {
	return &SectionExtractor{
		client:       client,
		systemPrompt: systemPrompt,
		userPrompt:   userPrompt,
		logger:       logger,
	}
}

// FetchSections extracts structured sections from resume text.
func (e *SectionExtractor) FetchSections(ctx context.Context, text, model string) (types.SectionMap, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewExtractionError(errors.CodeEmptyInput,
			"Empty input text", nil).
			WithDetail("text_length", len(text))
	}

	response, err := e.client.Complete(ctx, model, e.systemPrompt, e.userPrompt, text)
	if err != nil {
		return nil, errors.NewExtractionError(errors.CodeExtractionFailed,
			"Failed to extract resume sections", err)
	}

	e.logger.Debug("Section extraction response received",
		"model", model,
		"response_length", len(response))

	data, err := RepairJSON(response)
	if err != nil {
		if goerrors.Is(err, ErrUnparsable) {
			return nil, errors.NewExtractionError(errors.CodeExtractionFailed,
				"Model response could not be parsed as JSON", err)
		}
		return nil, errors.NewExtractionError(errors.CodeExtractionFailed,
			"Failed to extract resume sections", err)
	}

	if len(data) == 0 {
		return nil, errors.NewExtractionError(errors.CodeNoSections,
			"No sections extracted from text", nil).
			WithDetail("text_preview", preview(text, 100))
	}

	return types.SectionMap(data), nil
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
