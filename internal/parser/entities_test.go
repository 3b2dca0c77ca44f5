package parser

import (
	goerrors "errors"
	"log/slog"
	"testing"
	"time"

	"cvlens/internal/errors"
	"cvlens/internal/types"
)

func testLogger() *errors.Logger {
	return errors.NewLogger(slog.LevelError)
}

func baseSections() types.SectionMap {
	return types.SectionMap{
		"Professional_Summary": "Backend engineer with 5 years in distributed systems.",
		"Total_experience":     "5 years",
		"Skills": map[string]any{
			"Technical_Skills": "Go\nPostgreSQL\n-\n",
			"Soft_Skills":      []any{"Communication", "•", ""},
		},
		"Professional_Experience": []any{
			map[string]any{"Position_or_Role": "Engineer", "Company": "Acme", "Duration": "Jan 2020 to Jan 2024"},
			map[string]any{"Position_or_Role": "", "Company": "", "Duration": "ignored"},
			map[string]any{"Company": "Globex"},
		},
		"Education": []any{
			map[string]any{"Institution": "State University", "Degree_or_Course": "BSc", "Duration": "2014 to Jun 2020"},
			map[string]any{"Institution": "Tech Institute", "Degree_or_Course": "MSc", "Duration": "2020 to 2022"},
		},
		"Awards_and_Achievements": []any{
			map[string]any{"Title": "Employee of the Year"},
			map[string]any{"Description": "no title, dropped"},
		},
		"References": []any{
			map[string]any{"Name": "J. Doe", "Position": "CTO", "Company": "Acme"},
		},
		"Languages": []any{
			map[string]any{"Language": "English", "Proficiency_level": "Fluent"},
			map[string]any{"Proficiency_level": "orphaned"},
		},
	}
}

func TestExtractEntities(t *testing.T) {
	extractor := NewEntityExtractor(testLogger())

	record, err := extractor.Extract(baseSections())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if record.Summary != "Backend engineer with 5 years in distributed systems." {
		t.Errorf("unexpected summary %q", record.Summary)
	}
	if record.TotalExperience != "5 years" {
		t.Errorf("unexpected total experience %q", record.TotalExperience)
	}

	if len(record.WorkExperience) != 2 {
		t.Fatalf("expected 2 work entries, got %d", len(record.WorkExperience))
	}
	if record.WorkExperience[1].Title != "-" || record.WorkExperience[1].Company != "Globex" {
		t.Errorf("expected dashed title for company-only entry, got %+v", record.WorkExperience[1])
	}

	// MSc ends 2022, later than the BSc's Jun 2020.
	if record.HighestDegree != "MSc" || record.Institution != "Tech Institute" {
		t.Errorf("expected MSc at Tech Institute, got %q at %q", record.HighestDegree, record.Institution)
	}

	wantTech := []string{"Go", "PostgreSQL"}
	if len(record.TechnicalSkills) != len(wantTech) {
		t.Fatalf("technical skills = %v, want %v", record.TechnicalSkills, wantTech)
	}
	for i := range wantTech {
		if record.TechnicalSkills[i] != wantTech[i] {
			t.Errorf("technical skills[%d] = %q, want %q", i, record.TechnicalSkills[i], wantTech[i])
		}
	}
	if len(record.SoftSkills) != 1 || record.SoftSkills[0] != "Communication" {
		t.Errorf("soft skills = %v", record.SoftSkills)
	}

	if len(record.Awards) != 1 || record.Awards[0] != "Employee of the Year" {
		t.Errorf("awards = %v", record.Awards)
	}
	if len(record.References) != 1 || record.References[0] != "CTO, Acme" {
		t.Errorf("references = %v", record.References)
	}
	if len(record.Languages) != 1 || record.Languages[0] != "English" {
		t.Errorf("languages = %v", record.Languages)
	}
}

func TestExtractEntitiesValidation(t *testing.T) {
	extractor := NewEntityExtractor(testLogger())

	t.Run("nil data", func(t *testing.T) {
		_, err := extractor.Extract(nil)
		var perr *errors.PipelineError
		if !goerrors.As(err, &perr) || perr.Code != errors.CodeBadShape {
			t.Errorf("expected code %d, got %v", errors.CodeBadShape, err)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		data := baseSections()
		delete(data, types.SectionSkills)
		_, err := extractor.Extract(data)
		var perr *errors.PipelineError
		if !goerrors.As(err, &perr) || perr.Code != errors.CodeMissingField {
			t.Errorf("expected code %d, got %v", errors.CodeMissingField, err)
		}
	})

	t.Run("nothing of substance", func(t *testing.T) {
		data := types.SectionMap{
			"Professional_Summary": "",
			"Total_experience":     "-",
			"Skills":               map[string]any{},
		}
		_, err := extractor.Extract(data)
		var perr *errors.PipelineError
		if !goerrors.As(err, &perr) || perr.Code != errors.CodeNoEntities {
			t.Errorf("expected code %d, got %v", errors.CodeNoEntities, err)
		}
	})
}

func TestParseEndDate(t *testing.T) {
	tests := []struct {
		duration string
		want     time.Time
	}{
		{"Jan 2020 to Jun 2022", time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{"2019 to 2021", time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"Mar 2018", time.Date(2018, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{"present", time.Time{}},
		{"", time.Time{}},
	}

	for _, tt := range tests {
		if got := parseEndDate(tt.duration); !got.Equal(tt.want) {
			t.Errorf("parseEndDate(%q) = %v, want %v", tt.duration, got, tt.want)
		}
	}
}

func TestHighestEducationTieGoesToLaterEntry(t *testing.T) {
	extractor := NewEntityExtractor(testLogger())
	data := baseSections()
	data["Education"] = []any{
		map[string]any{"Institution": "First", "Degree_or_Course": "BA", "Duration": "2018 to 2022"},
		map[string]any{"Institution": "Second", "Degree_or_Course": "BSc", "Duration": "2019 to 2022"},
	}

	record, err := extractor.Extract(data)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if record.Institution != "Second" {
		t.Errorf("tie should go to the later entry, got %q", record.Institution)
	}
}
