package service

import (
	"context"
	goerrors "errors"
	"os"
	"path/filepath"
	"strings"

	"cvlens/internal/ai"
	"cvlens/internal/analyzer"
	"cvlens/internal/errors"
	"cvlens/internal/formatters"
	"cvlens/internal/ingest"
	"cvlens/internal/parser"
	"cvlens/internal/questions"
	"cvlens/internal/textnorm"
	"cvlens/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ParserService composes the full pipeline: ingestion, normalization,
// section extraction, entity derivation, rendering and quality analysis.
// It is the boundary both the HTTP server and the CLI call.
type ParserService struct {
	reader    *ingest.Reader
	sections  *parser.SectionExtractor
	entities  *parser.EntityExtractor
	analyzer  *analyzer.ResumeAnalyzer
	questions *questions.Generator
	scratch   string
	logger    *errors.Logger
}

// Option configures a ParserService.
type Option func(*ParserService)

// WithScratchDir overrides the base directory for per-request working files.
func WithScratchDir(dir string) Option {
	return func(s *ParserService) { s.scratch = dir }
}

// New wires the pipeline stages into a service.
func New(
	reader *ingest.Reader,
	sections *parser.SectionExtractor,
	entities *parser.EntityExtractor,
	resumeAnalyzer *analyzer.ResumeAnalyzer,
	generator *questions.Generator,
	logger *errors.Logger,
	opts ...Option,
) *ParserService {
	s := &ParserService{
		reader:    reader,
		sections:  sections,
		entities:  entities,
		analyzer:  resumeAnalyzer,
		questions: generator,
		scratch:   os.TempDir(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse runs the full pipeline over an uploaded document and returns the
// rendered entity and issue reports.
func (s *ParserService) Parse(ctx context.Context, document []byte, filename, modelDisplay string) (*types.ParseResult, error) {
	record, analysis, err := s.ParseRecord(ctx, document, filename, modelDisplay)
	if err != nil {
		return nil, err
	}

	resultReport, err := formatters.RenderEntityReport(record)
	if err != nil {
		return nil, err
	}

	issueReport, err := formatters.RenderIssueReport(analysis)
	if err != nil {
		return nil, err
	}

	return &types.ParseResult{
		ResultReport: resultReport,
		IssueReport:  issueReport,
	}, nil
}

// ParseRecord runs the pipeline and returns the structured entity record and
// quality analysis without rendering. Callers that need a specific output
// format run the results through a formatter registry.
func (s *ParserService) ParseRecord(ctx context.Context, document []byte, filename, modelDisplay string) (*types.EntityRecord, types.AnalysisResult, error) {
	tracer := otel.Tracer("cvlens.service")
	ctx, span := tracer.Start(ctx, "service.parse")
	defer span.End()
	span.SetAttributes(
		attribute.String("parse.filename", filepath.Base(filename)),
		attribute.Int("parse.size", len(document)),
	)

	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, types.AnalysisResult{}, errors.NewIngestionError(errors.CodeUnsupportedMode,
			"Only PDF documents are supported", nil).
			WithDetail("filename", filepath.Base(filename))
	}

	model := ai.ResolveModel(modelDisplay)

	// Per-request scratch directory: the working files must never be
	// shared between concurrent uploads.
	workDir := filepath.Join(s.scratch, "cvlens-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o750); err != nil {
		return nil, types.AnalysisResult{}, errors.NewIngestionError(errors.CodeReadFailed,
			"Failed to create working directory", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.logger.Warn("Failed to clean working directory", "dir", workDir, "error", err.Error())
		}
	}()

	docPath := filepath.Join(workDir, filepath.Base(filename))
	if err := os.WriteFile(docPath, document, 0o600); err != nil {
		return nil, types.AnalysisResult{}, errors.NewIngestionError(errors.CodeReadFailed,
			"Failed to save uploaded document", err)
	}

	extracted, err := s.reader.Read(docPath, ingest.ModeStructured)
	if err != nil {
		return nil, types.AnalysisResult{}, err
	}

	formatted := textnorm.Normalize(extracted.Formatted)
	plain := textnorm.Normalize(extracted.Plain)

	// The normalized text is kept on disk for the lifetime of the request;
	// useful when diagnosing extraction quality.
	if err := os.WriteFile(filepath.Join(workDir, "normalized.txt"), []byte(plain), 0o600); err != nil {
		s.logger.Warn("Failed to persist normalized text", "error", err.Error())
	}

	sections, err := s.sections.FetchSections(ctx, formatted, model)
	if err != nil {
		return nil, types.AnalysisResult{}, err
	}

	record, err := s.entities.Extract(sections)
	if err != nil {
		return nil, types.AnalysisResult{}, wrapEntityFailure(err)
	}

	analysis := s.analyzer.Analyze(ctx, plain, model)

	s.logger.Info("Resume parsed",
		"filename", filepath.Base(filename),
		"model", model,
		"missing_sections", len(analysis.MissingSections),
		"spelling_corrections", len(analysis.SpellingCorrections))

	return record, analysis, nil
}

// GenerateQuestions validates and runs a question-generation request. The
// years-of-experience field accepts the same free-text grammar the parse
// report emits.
func (s *ParserService) GenerateQuestions(ctx context.Context, modelDisplay, skills, adhocSkill string, numQuestions int, yoe string) (*types.QuestionResult, error) {
	tracer := otel.Tracer("cvlens.service")
	ctx, span := tracer.Start(ctx, "service.generate_questions")
	defer span.End()

	years, err := questions.ParseYOE(yoe)
	if err != nil {
		return nil, err
	}

	return s.questions.Generate(ctx, types.QuestionRequest{
		Model:        modelDisplay,
		Skills:       questions.NormalizeSkills(skills),
		AdhocSkill:   strings.TrimSpace(adhocSkill),
		NumQuestions: numQuestions,
		YearsOfExp:   years,
	})
}

// wrapEntityFailure marks unexpected (non-pipeline) entity errors with the
// derivation-failed code while letting typed validation errors through.
func wrapEntityFailure(err error) error {
	var perr *errors.PipelineError
	if goerrors.As(err, &perr) {
		return err
	}
	return errors.NewEntitiesError(errors.CodeEntitiesFailed,
		"Failed to extract resume entities", err)
}
