package analyzer

import (
	"context"

	"cvlens/internal/errors"
	"cvlens/internal/types"
)

// ResumeAnalyzer combines the deterministic section check with the
// LLM-backed spell check. Both halves are independent, so a failure in one
// never blocks the other.
type ResumeAnalyzer struct {
	sections *SectionChecker
	spelling *SpellChecker
	logger   *errors.Logger
}

func NewResumeAnalyzer(sections *SectionChecker, spelling *SpellChecker, logger *errors.Logger) *ResumeAnalyzer {
	return &ResumeAnalyzer{
		sections: sections,
		spelling: spelling,
		logger:   logger,
	}
}

// Analyze runs both quality checks over the resume text.
func (a *ResumeAnalyzer) Analyze(ctx context.Context, text, model string) types.AnalysisResult {
	result := types.AnalysisResult{
		MissingSections:     a.sections.MissingSections(text),
		SpellingCorrections: a.spelling.Check(ctx, text, model),
	}

	a.logger.Debug("Resume analysis complete",
		"missing_sections", len(result.MissingSections),
		"spelling_corrections", len(result.SpellingCorrections))

	return result
}
