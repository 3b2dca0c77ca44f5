package analyzer

import (
	"context"
	goerrors "errors"
	"log/slog"
	"slices"
	"testing"

	"cvlens/internal/errors"
)

func testLogger() *errors.Logger {
	return errors.NewLogger(slog.LevelError)
}

type stubRecognizer struct {
	entities []Entity
}

func (s *stubRecognizer) Entities(string) []Entity { return s.entities }

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) Complete(context.Context, string, string, string, string) (string, error) {
	return s.response, s.err
}

func TestMissingSectionsEmptyText(t *testing.T) {
	checker := NewSectionChecker(&stubRecognizer{}, testLogger())

	missing := checker.MissingSections("   ")
	if len(missing) != len(sectionKeywords) {
		t.Errorf("empty text should report all %d sections missing, got %d", len(sectionKeywords), len(missing))
	}
}

func TestMissingSectionsKeywordMatch(t *testing.T) {
	checker := NewSectionChecker(&stubRecognizer{}, testLogger())

	text := `Professional Summary
Experienced engineer.
Education: BSc Computer Science, State University
Skills: Go, SQL`

	missing := checker.MissingSections(text)

	for _, section := range []string{"Professional Summary", "Education", "Skills", "Work Experience"} {
		if slices.Contains(missing, section) {
			t.Errorf("section %q should have been found", section)
		}
	}
	if !slices.Contains(missing, "Certifications") {
		t.Errorf("Certifications should be missing, got %v", missing)
	}
}

func TestMissingSectionsEntityMatch(t *testing.T) {
	recognizer := &stubRecognizer{entities: []Entity{
		{Text: "Certification Authority", Label: "ORG"},
		{Text: "projects galore", Label: "IGNORED_LABEL"},
	}}
	checker := NewSectionChecker(recognizer, testLogger())

	// Text itself mentions nothing; only the ORG entity carries a keyword.
	missing := checker.MissingSections("lorem ipsum dolor")

	if slices.Contains(missing, "Certifications") {
		t.Error("ORG entity containing a keyword should mark Certifications as found")
	}
	if !slices.Contains(missing, "Projects") {
		t.Error("entity with disallowed label must not mark Projects as found")
	}
}

func TestSpellCheckFiltersEqualPairs(t *testing.T) {
	client := &stubClient{response: `{
		"misspelled_words": [
			{"incorrect_word": "Teh", "correct_word": "The"},
			{"incorrect_word": "Teh", "correct_word": "Teh"},
			{"incorrect_word": " Teh ", "correct_word": "Teh"},
			{"incorrect_word": "", "correct_word": "whatever"}
		]
	}`}
	checker := NewSpellChecker(client, testLogger())

	corrections := checker.Check(context.Background(), "some text", "model")
	if len(corrections) != 1 {
		t.Fatalf("expected 1 correction, got %d: %v", len(corrections), corrections)
	}
	if corrections[0].Incorrect != "Teh" || corrections[0].Correct != "The" {
		t.Errorf("unexpected correction %+v", corrections[0])
	}
}

func TestSpellCheckFailuresDegrade(t *testing.T) {
	tests := []struct {
		name   string
		client *stubClient
	}{
		{"completion error", &stubClient{err: goerrors.New("backend down")}},
		{"no json", &stubClient{response: "sorry, plain prose"}},
		{"wrong shape", &stubClient{response: `{"misspelled_words": "not a list"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewSpellChecker(tt.client, testLogger())
			if got := checker.Check(context.Background(), "text", "model"); got != nil {
				t.Errorf("expected nil corrections, got %v", got)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	sections := NewSectionChecker(&stubRecognizer{}, testLogger())
	spelling := NewSpellChecker(&stubClient{response: `{"misspelled_words": [{"incorrect_word": "recieve", "correct_word": "receive"}]}`}, testLogger())
	analyzer := NewResumeAnalyzer(sections, spelling, testLogger())

	result := analyzer.Analyze(context.Background(), "Skills: Go. Education: BSc.", "model")

	if slices.Contains(result.MissingSections, "Skills") {
		t.Error("Skills should not be missing")
	}
	if len(result.SpellingCorrections) != 1 {
		t.Errorf("expected 1 correction, got %v", result.SpellingCorrections)
	}
}
