package service

import (
	"context"

	"cvlens/internal/ai"
	"cvlens/internal/analyzer"
	"cvlens/internal/config"
	"cvlens/internal/errors"
	"cvlens/internal/ingest"
	"cvlens/internal/parser"
	"cvlens/internal/questions"
)

// Pipeline bundles the parser service with the per-operation AI services
// behind it, so callers can reach breaker stats and model info.
type Pipeline struct {
	Service     *ParserService
	ParseAI     *ai.Service
	SpellAI     *ai.Service
	QuestionsAI *ai.Service
}

// NewPipeline wires the full pipeline from application configuration.
func NewPipeline(ctx context.Context, cfg *config.Config, logger *errors.Logger, opts ...Option) (*Pipeline, error) {
	parseCfg := cfg.GetParseConfig()
	parseAI, err := ai.NewService(ctx, &parseCfg, "parse", logger)
	if err != nil {
		return nil, err
	}

	spellCfg := cfg.GetSpellCheckConfig()
	spellAI, err := ai.NewService(ctx, &spellCfg, "spellcheck", logger)
	if err != nil {
		return nil, err
	}

	questionsCfg := cfg.GetQuestionsConfig()
	questionsAI, err := ai.NewService(ctx, &questionsCfg, "questions", logger)
	if err != nil {
		return nil, err
	}

	parsePrompts := config.GetPromptsForOperation("parse")
	sections := parser.NewSectionExtractorWithPrompts(
		parseAI,
		ai.ResolvePrompt(parsePrompts.SystemPrompts.ParseSections,
			parseCfg.CustomPrompts.SystemPrompts.ParseSections,
			ai.DefaultSystemPrompts.ParseSections),
		ai.ResolvePrompt(parsePrompts.UserPrompts.ParseSections,
			parseCfg.CustomPrompts.UserPrompts.ParseSections,
			ai.DefaultUserPrompts.ParseSections),
		logger,
	)

	spellPrompts := config.GetPromptsForOperation("spellcheck")
	spelling := analyzer.NewSpellCheckerWithPrompts(
		spellAI,
		ai.ResolvePrompt(spellPrompts.SystemPrompts.SpellCheck,
			spellCfg.CustomPrompts.SystemPrompts.SpellCheck,
			ai.DefaultSystemPrompts.SpellCheck),
		ai.ResolvePrompt(spellPrompts.UserPrompts.SpellCheck,
			spellCfg.CustomPrompts.UserPrompts.SpellCheck,
			ai.DefaultUserPrompts.SpellCheck),
		logger,
	)

	recognizer := analyzer.NewProseRecognizer(logger)
	checker := analyzer.NewSectionChecker(recognizer, logger)
	resumeAnalyzer := analyzer.NewResumeAnalyzer(checker, spelling, logger)

	if cfg.App.ScratchDir != "" {
		opts = append([]Option{WithScratchDir(cfg.App.ScratchDir)}, opts...)
	}

	svc := New(
		ingest.NewReader(logger),
		sections,
		parser.NewEntityExtractor(logger),
		resumeAnalyzer,
		questions.NewGenerator(questionsAI, logger),
		logger,
		opts...,
	)

	return &Pipeline{
		Service:     svc,
		ParseAI:     parseAI,
		SpellAI:     spellAI,
		QuestionsAI: questionsAI,
	}, nil
}

// Close releases the AI providers behind the pipeline.
func (p *Pipeline) Close() error {
	var firstErr error
	for _, s := range []*ai.Service{p.ParseAI, p.SpellAI, p.QuestionsAI} {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
