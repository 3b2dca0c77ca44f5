package analyzer

import (
	"cvlens/internal/errors"

	"github.com/jdkato/prose/v2"
)

// ProseRecognizer runs named-entity recognition with the prose tagger. The
// model is loaded per document by the library; the recognizer itself is
// stateless and safe for concurrent use.
type ProseRecognizer struct {
	logger *errors.Logger
}

var _ EntityRecognizer = (*ProseRecognizer)(nil)

func NewProseRecognizer(logger *errors.Logger) *ProseRecognizer {
	return &ProseRecognizer{logger: logger}
}

// Entities extracts named entities, normalizing prose's label set onto the
// one the section checker filters on. Recognition failure degrades to no
// entities; the keyword check still runs.
func (r *ProseRecognizer) Entities(text string) []Entity {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(true),
		prose.WithExtraction(true))
	if err != nil {
		r.logger.Warn("Entity recognition failed", "error", err.Error())
		return nil
	}

	var out []Entity
	for _, ent := range doc.Entities() {
		out = append(out, Entity{Text: ent.Text, Label: ent.Label})
	}
	return out
}
