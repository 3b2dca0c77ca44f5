package analyzer

import (
	"sort"
	"strings"

	"cvlens/internal/errors"
)

// Entity is one named entity found in resume text.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer finds named entities in text. The production recognizer
// loads its model once at startup; tests inject a canned one.
type EntityRecognizer interface {
	Entities(text string) []Entity
}

// entityLabels are the named-entity types considered evidence that a
// section's subject matter is present.
var entityLabels = map[string]struct{}{
	"ORG":         {},
	"WORK_OF_ART": {},
	"GPE":         {},
	"PRODUCT":     {},
	"LANGUAGE":    {},
	"PERSON":      {},
	"DATE":        {},
	"CARDINAL":    {},
}

// sectionKeywords maps each checkable resume section to the phrases that
// signal its presence. Matching is case-insensitive substring containment.
var sectionKeywords = map[string][]string{
	"Professional Summary": {"summary", "objective", "profile"},
	"Work Experience":      {"experience", "employment", "work history", "career"},
	"Education":            {"education", "university", "college", "degree", "bachelor", "master"},
	"Skills":               {"skills", "technologies", "competencies"},
	"Projects":             {"projects"},
	"Certifications":       {"certifications", "certification", "certified", "certificate"},
	"Awards":               {"awards", "achievements", "honors"},
	"Languages":            {"languages"},
}

// SectionChecker detects sections missing from resume text without calling
// a model.
type SectionChecker struct {
	recognizer EntityRecognizer
	logger     *errors.Logger
}

func NewSectionChecker(recognizer EntityRecognizer, logger *errors.Logger) *SectionChecker {
	return &SectionChecker{recognizer: recognizer, logger: logger}
}

// MissingSections returns the sections not evidenced in the text, sorted.
// A section counts as found when one of its keywords appears in the lowered
// text, or when a recognized entity of an allowed type contains a keyword.
// Empty input reports every section missing.
func (c *SectionChecker) MissingSections(text string) []string {
	if strings.TrimSpace(text) == "" {
		c.logger.Warn("Empty text provided for section check")
		return allSections()
	}

	found := make(map[string]struct{})

	textLower := strings.ToLower(text)
	for section, keywords := range sectionKeywords {
		if containsAny(textLower, keywords) {
			found[section] = struct{}{}
		}
	}

	if c.recognizer != nil {
		for _, ent := range c.recognizer.Entities(text) {
			if _, ok := entityLabels[ent.Label]; !ok {
				continue
			}
			entLower := strings.ToLower(ent.Text)
			for section, keywords := range sectionKeywords {
				if containsAny(entLower, keywords) {
					found[section] = struct{}{}
				}
			}
		}
	}

	var missing []string
	for section := range sectionKeywords {
		if _, ok := found[section]; !ok {
			missing = append(missing, section)
		}
	}
	sort.Strings(missing)
	return missing
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func allSections() []string {
	sections := make([]string, 0, len(sectionKeywords))
	for section := range sectionKeywords {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	return sections
}
