package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"cvlens/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "EntityRecord", &EntityTextFormatter{})
	registry.RegisterFormatter("html", "EntityRecord", &EntityHTMLFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("html", "AnalysisResult", &AnalysisHTMLFormatter{})
	registry.RegisterFormatter("text", "QuestionResult", &QuestionTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.EntityRecord, *types.EntityRecord:
		return "EntityRecord"
	case types.AnalysisResult:
		return "AnalysisResult"
	case types.QuestionResult, *types.QuestionResult:
		return "QuestionResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// EntityTextFormatter renders the parsed-entity report as plain text
type EntityTextFormatter struct{}

func (etf *EntityTextFormatter) Format(data any) (string, error) {
	record, err := entityRecord(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== PARSED RESUME ===\n\n")
	writeField(&output, "Professional Summary", record.Summary)
	writeField(&output, "Total Experience", record.TotalExperience)

	output.WriteString("Work Experience:\n")
	if len(record.WorkExperience) == 0 {
		output.WriteString("  -\n")
	}
	for _, exp := range record.WorkExperience {
		output.WriteString(fmt.Sprintf("  %s at %s (%s)\n", exp.Title, exp.Company, exp.Duration))
	}
	output.WriteString("\n")

	writeField(&output, "Career Gap", record.CareerGap)
	writeList(&output, "Awards", record.Awards)
	writeField(&output, "Highest Degree", record.HighestDegree)
	writeField(&output, "Institution", record.Institution)
	writeField(&output, "Graduation Date", record.GraduationDate)
	writeList(&output, "Technical Skills", record.TechnicalSkills)
	writeList(&output, "Soft Skills", record.SoftSkills)
	writeList(&output, "Projects", record.Projects)
	writeList(&output, "Certifications", record.Certifications)
	writeList(&output, "Competitions", record.Competitions)
	writeList(&output, "Publications", record.Publications)
	writeList(&output, "References", record.References)
	writeList(&output, "Languages", record.Languages)

	return output.String(), nil
}

func (etf *EntityTextFormatter) SupportedType() string {
	return "EntityRecord"
}

// AnalysisTextFormatter renders the quality-check report as plain text
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ISSUES ===\n\n")
	writeList(&output, "Missing Sections", result.MissingSections)

	output.WriteString("Spelling Corrections:\n")
	if len(result.SpellingCorrections) == 0 {
		output.WriteString("  -\n")
	}
	for _, c := range result.SpellingCorrections {
		output.WriteString(fmt.Sprintf("  %s (Correct: %s)\n", c.Incorrect, c.Correct))
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// QuestionTextFormatter renders generated questions, one per block
type QuestionTextFormatter struct{}

func (qtf *QuestionTextFormatter) Format(data any) (string, error) {
	var result types.QuestionResult
	switch v := data.(type) {
	case types.QuestionResult:
		result = v
	case *types.QuestionResult:
		result = *v
	default:
		return "", fmt.Errorf("expected QuestionResult, got %T", data)
	}

	if len(result.Questions) == 0 {
		return "No questions available.\n", nil
	}
	return strings.Join(result.Questions, "\n\n") + "\n", nil
}

func (qtf *QuestionTextFormatter) SupportedType() string {
	return "QuestionResult"
}

func entityRecord(data any) (*types.EntityRecord, error) {
	switch v := data.(type) {
	case types.EntityRecord:
		return &v, nil
	case *types.EntityRecord:
		return v, nil
	default:
		return nil, fmt.Errorf("expected EntityRecord, got %T", data)
	}
}

func writeField(output *strings.Builder, label, value string) {
	if value == "" {
		value = "-"
	}
	output.WriteString(fmt.Sprintf("%s: %s\n\n", label, value))
}

func writeList(output *strings.Builder, label string, items []string) {
	output.WriteString(label + ":\n")
	if len(items) == 0 {
		output.WriteString("  -\n")
	}
	for _, item := range items {
		output.WriteString("  • " + item + "\n")
	}
	output.WriteString("\n")
}
