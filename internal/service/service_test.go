package service

import (
	"context"
	goerrors "errors"
	"log/slog"
	"strings"
	"testing"

	"cvlens/internal/analyzer"
	"cvlens/internal/errors"
	"cvlens/internal/ingest"
	"cvlens/internal/parser"
	"cvlens/internal/questions"
)

func testLogger() *errors.Logger {
	return errors.NewLogger(slog.LevelError)
}

type stubConverter struct {
	formatted string
	plain     string
	err       error
}

func (s *stubConverter) Convert(string) (string, string, error) {
	return s.formatted, s.plain, s.err
}

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) Complete(context.Context, string, string, string, string) (string, error) {
	return s.response, s.err
}

type stubRecognizer struct{}

func (stubRecognizer) Entities(string) []analyzer.Entity { return nil }

const sectionResponse = `{
	"Professional_Summary": "Data engineer with three years of pipeline work.",
	"Total_experience": "3 years",
	"Skills": {"Technical_Skills": "Python\nSQL"},
	"Education": [
		{"Institution": "State University", "Degree_or_Course": "BSc", "Duration": "2016 to Jun 2020"},
		{"Institution": "Tech Institute", "Degree_or_Course": "MSc", "Duration": "2020 to 2022"}
	]
}`

func newTestService(t *testing.T, sectionClient, spellClient, questionClient *stubClient, converter *stubConverter) *ParserService {
	t.Helper()
	logger := testLogger()

	reader := ingest.NewReaderWithBackends(converter, converter, logger)
	sections := parser.NewSectionExtractor(sectionClient, logger)
	entities := parser.NewEntityExtractor(logger)
	resumeAnalyzer := analyzer.NewResumeAnalyzer(
		analyzer.NewSectionChecker(stubRecognizer{}, logger),
		analyzer.NewSpellChecker(spellClient, logger),
		logger,
	)
	generator := questions.NewGenerator(questionClient, logger)

	return New(reader, sections, entities, resumeAnalyzer, generator, logger,
		WithScratchDir(t.TempDir()))
}

func TestParseEndToEnd(t *testing.T) {
	converter := &stubConverter{
		formatted: "## SUMMARY\nData engineer. Skills: Python, SQL. Education: BSc.",
		plain:     "SUMMARY Data engineer with experience. Skills: Python, SQL. Education: BSc.",
	}
	spellClient := &stubClient{response: `{"misspelled_words": [{"incorrect_word": "recieve", "correct_word": "receive"}]}`}
	svc := newTestService(t, &stubClient{response: sectionResponse}, spellClient, &stubClient{}, converter)

	result, err := svc.Parse(context.Background(), []byte("%PDF-1.4 fake"), "resume.pdf", "Hermes LLama 3.1 8B")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for _, want := range []string{
		"Data engineer with three years of pipeline work.",
		"MSc",           // 2022 beats Jun 2020
		"Python", "SQL", // split on newline
	} {
		if !strings.Contains(result.ResultReport, want) {
			t.Errorf("result report missing %q", want)
		}
	}
	if !strings.Contains(result.IssueReport, "recieve (Correct: receive)") {
		t.Errorf("issue report missing correction:\n%s", result.IssueReport)
	}
}

func TestParseRejectsNonPDF(t *testing.T) {
	svc := newTestService(t, &stubClient{}, &stubClient{}, &stubClient{}, &stubConverter{})

	_, err := svc.Parse(context.Background(), []byte("hello"), "resume.docx", "")
	var perr *errors.PipelineError
	if !goerrors.As(err, &perr) || perr.Code != errors.CodeUnsupportedMode {
		t.Errorf("expected code %d, got %v", errors.CodeUnsupportedMode, err)
	}
}

func TestParseSurfacesExtractionFailure(t *testing.T) {
	converter := &stubConverter{formatted: "text", plain: "text"}
	svc := newTestService(t, &stubClient{err: goerrors.New("backend down")}, &stubClient{}, &stubClient{}, converter)

	_, err := svc.Parse(context.Background(), []byte("%PDF"), "resume.pdf", "")
	var perr *errors.PipelineError
	if !goerrors.As(err, &perr) || perr.Code != errors.CodeExtractionFailed {
		t.Errorf("expected code %d, got %v", errors.CodeExtractionFailed, err)
	}
}

func TestGenerateQuestions(t *testing.T) {
	questionClient := &stubClient{response: "• Explain windowing in stream processing.\n• How would you model slowly changing dimensions?\n• Describe partitioning strategy for a large table."}
	svc := newTestService(t, &stubClient{}, &stubClient{}, questionClient, &stubConverter{})

	result, err := svc.GenerateQuestions(context.Background(), "", "Python\nSQL", "", 3, "3 years")
	if err != nil {
		t.Fatalf("GenerateQuestions failed: %v", err)
	}
	if len(result.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(result.Questions))
	}
	if !strings.HasPrefix(result.Questions[2], "3. ") {
		t.Errorf("questions should be numbered, got %q", result.Questions[2])
	}
}

func TestGenerateQuestionsBadYOE(t *testing.T) {
	svc := newTestService(t, &stubClient{}, &stubClient{}, &stubClient{}, &stubConverter{})

	_, err := svc.GenerateQuestions(context.Background(), "", "Go", "", 3, "a while")
	if err == nil {
		t.Fatal("expected error for unparseable YOE")
	}
}
