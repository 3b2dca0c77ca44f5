package parser

import (
	"fmt"
	"strings"
	"time"

	"cvlens/internal/errors"
	"cvlens/internal/types"
)

// EntityExtractor derives the flattened EntityRecord from a raw section map.
// It is pure data plumbing: no model calls, just validation, defaulting and
// the highest-degree computation.
type EntityExtractor struct {
	logger *errors.Logger
}

func NewEntityExtractor(logger *errors.Logger) *EntityExtractor {
	return &EntityExtractor{logger: logger}
}

// Extract validates the section map and derives the entity record.
func (e *EntityExtractor) Extract(data types.SectionMap) (*types.EntityRecord, error) {
	if err := validateSections(data); err != nil {
		return nil, err
	}

	record := &types.EntityRecord{
		Summary:         stringField(data, types.SectionSummary),
		TotalExperience: stringField(data, types.SectionTotalExperience),
		WorkExperience:  flattenExperience(data),
		CareerGap:       stringField(data, types.SectionCareerGap),
		Awards:          collectField(data, types.SectionAwards, "Title"),
		TechnicalSkills: skillList(data, types.SkillsFieldTechnical),
		SoftSkills:      skillList(data, types.SkillsFieldSoft),
		Projects:        collectField(data, types.SectionProjects, "Name"),
		Certifications:  certificationTitles(data),
		Competitions:    collectField(data, types.SectionCompetitions, "Name"),
		Publications:    collectField(data, types.SectionPublications, "Title"),
		References:      referenceLines(data),
		Languages:       collectField(data, types.SectionLanguages, "Language"),
	}

	degree, institution, gradDate, err := e.highestEducation(data)
	if err != nil {
		return nil, err
	}
	record.HighestDegree = degree
	record.Institution = institution
	record.GraduationDate = gradDate

	if recordEmpty(record) {
		return nil, errors.NewEntitiesError(errors.CodeNoEntities,
			"No valid entities extracted", nil)
	}

	return record, nil
}

// validateSections checks the section map shape and required fields.
func validateSections(data types.SectionMap) error {
	if data == nil {
		return errors.NewEntitiesError(errors.CodeBadShape,
			"Invalid resume data format", nil)
	}
	for _, field := range types.RequiredSections {
		if _, ok := data[field]; !ok {
			return errors.NewEntitiesError(errors.CodeMissingField,
				fmt.Sprintf("Missing required field: %s", field), nil).
				WithDetail("missing_field", field)
		}
	}
	return nil
}

// highestEducation picks the education entry with the latest end date. Ties
// go to the later entry in document order.
func (e *EntityExtractor) highestEducation(data types.SectionMap) (degree, institution, gradDate string, err error) {
	degree, institution, gradDate = "-", "-", "-"

	entries := listField(data, types.SectionEducation)
	if len(entries) == 0 {
		e.logger.Warn("No education information found")
		return degree, institution, gradDate, nil
	}

	var best map[string]any
	var bestDate time.Time
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			return "", "", "", errors.NewEntitiesError(errors.CodeEducationFailed,
				"Failed to process education information", nil).
				WithDetail("entry", fmt.Sprintf("%v", entry))
		}
		endDate := parseEndDate(stringValue(m["Duration"]))
		if best == nil || !endDate.Before(bestDate) {
			best = m
			bestDate = endDate
		}
	}

	return fieldOrDash(best, "Degree_or_Course"),
		fieldOrDash(best, "Institution"),
		fieldOrDash(best, "Duration"),
		nil
}

// parseEndDate extracts the end of a "X to Y" duration and parses it as a
// month-year or bare year. Unparsable dates sort before everything.
func parseEndDate(duration string) time.Time {
	parts := strings.Split(duration, " to ")
	end := strings.TrimSpace(parts[len(parts)-1])

	for _, layout := range []string{"Jan 2006", "2006"} {
		if t, err := time.Parse(layout, end); err == nil {
			return t
		}
	}
	return time.Time{}
}

// flattenExperience keeps entries that name a role or a company.
func flattenExperience(data types.SectionMap) []types.WorkExperience {
	var out []types.WorkExperience
	for _, entry := range listField(data, types.SectionExperience) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		role := stringValue(m["Position_or_Role"])
		company := stringValue(m["Company"])
		if role == "" && company == "" {
			continue
		}
		out = append(out, types.WorkExperience{
			Title:    orDash(role),
			Company:  orDash(company),
			Duration: orDash(stringValue(m["Duration"])),
		})
	}
	return out
}

// skillList normalizes a Skills subfield to a cleaned list. Strings split on
// newlines; lists pass through. Placeholder entries are dropped.
func skillList(data types.SectionMap, field string) []string {
	skills, ok := data[types.SectionSkills].(map[string]any)
	if !ok {
		return nil
	}

	var raw []string
	switch v := skills[field].(type) {
	case string:
		raw = strings.Split(v, "\n")
	case []any:
		for _, item := range v {
			raw = append(raw, stringValue(item))
		}
	}

	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || s == "-" || s == "•" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// certificationTitles handles the three shapes the model produces for
// certifications: a list of records, a list of strings, or one
// comma-separated string.
func certificationTitles(data types.SectionMap) []string {
	var out []string
	switch v := data[types.SectionCertifications].(type) {
	case string:
		for _, part := range strings.Split(v, ", ") {
			if part != "" {
				out = append(out, part)
			}
		}
	case []any:
		for _, item := range v {
			switch cert := item.(type) {
			case map[string]any:
				out = append(out, fieldOrDash(cert, "Title"))
			default:
				out = append(out, stringValue(item))
			}
		}
	}
	return out
}

// referenceLines renders each reference as "Position, Company".
func referenceLines(data types.SectionMap) []string {
	var out []string
	for _, entry := range listField(data, types.SectionReferences) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		position := stringValue(m["Position"])
		if position == "" {
			position = "Unknown Position"
		}
		company := stringValue(m["Company"])
		if company == "" {
			company = "Unknown Company"
		}
		out = append(out, position+", "+company)
	}
	return out
}

// collectField gathers one named field from each record in a list section,
// skipping blanks.
func collectField(data types.SectionMap, section, field string) []string {
	var out []string
	for _, entry := range listField(data, section) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if v := stringValue(m[field]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// recordEmpty reports whether derivation produced nothing of substance.
// Placeholder dashes count as empty.
func recordEmpty(r *types.EntityRecord) bool {
	for _, s := range []string{
		r.Summary, r.TotalExperience, r.CareerGap,
		r.HighestDegree, r.Institution, r.GraduationDate,
	} {
		if s != "" && s != "-" {
			return false
		}
	}
	if len(r.WorkExperience) > 0 {
		return false
	}
	for _, list := range [][]string{
		r.Awards, r.TechnicalSkills, r.SoftSkills, r.Projects,
		r.Certifications, r.Competitions, r.Publications,
		r.References, r.Languages,
	} {
		if len(list) > 0 {
			return false
		}
	}
	return true
}

func listField(data types.SectionMap, key string) []any {
	list, _ := data[key].([]any)
	return list
}

// stringField returns a section's value as display text, defaulting to "-".
func stringField(data types.SectionMap, key string) string {
	return orDash(stringValue(data[key]))
}

// stringValue renders a heterogeneous value as text. Nil becomes empty;
// non-strings (the model sometimes emits numbers) are formatted.
func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func fieldOrDash(m map[string]any, key string) string {
	return orDash(stringValue(m[key]))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
