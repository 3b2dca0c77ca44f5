package parser

import (
	"context"
	goerrors "errors"
	"testing"

	"cvlens/internal/errors"
	"cvlens/internal/types"
)

type fakeClient struct {
	response string
	err      error
	lastUser string
}

func (f *fakeClient) Complete(_ context.Context, _, _, userPrompt, content string) (string, error) {
	f.lastUser = userPrompt + content
	return f.response, f.err
}

func TestFetchSections(t *testing.T) {
	client := &fakeClient{response: "```json\n{\"Professional_Summary\": \"Engineer\", \"Total_experience\": \"4 years\",}\n```"}
	extractor := NewSectionExtractor(client, testLogger())

	sections, err := extractor.FetchSections(context.Background(), "resume text", "hermes-3-llama-3.1-8b")
	if err != nil {
		t.Fatalf("FetchSections failed: %v", err)
	}
	if sections[types.SectionSummary] != "Engineer" {
		t.Errorf("summary = %v", sections[types.SectionSummary])
	}
}

func TestFetchSectionsEmptyInput(t *testing.T) {
	extractor := NewSectionExtractor(&fakeClient{}, testLogger())

	for _, input := range []string{"", "   \n\t "} {
		_, err := extractor.FetchSections(context.Background(), input, "")
		var perr *errors.PipelineError
		if !goerrors.As(err, &perr) || perr.Code != errors.CodeEmptyInput {
			t.Errorf("input %q: expected code %d, got %v", input, errors.CodeEmptyInput, err)
		}
	}
}

func TestFetchSectionsNoSections(t *testing.T) {
	client := &fakeClient{response: "I could not find any structured data in this resume."}
	extractor := NewSectionExtractor(client, testLogger())

	_, err := extractor.FetchSections(context.Background(), "resume text", "")
	var perr *errors.PipelineError
	if !goerrors.As(err, &perr) || perr.Code != errors.CodeNoSections {
		t.Errorf("expected code %d, got %v", errors.CodeNoSections, err)
	}
}

func TestFetchSectionsCompletionFailure(t *testing.T) {
	client := &fakeClient{err: goerrors.New("backend down")}
	extractor := NewSectionExtractor(client, testLogger())

	_, err := extractor.FetchSections(context.Background(), "resume text", "")
	var perr *errors.PipelineError
	if !goerrors.As(err, &perr) || perr.Code != errors.CodeExtractionFailed {
		t.Errorf("expected code %d, got %v", errors.CodeExtractionFailed, err)
	}
}
