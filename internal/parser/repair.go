package parser

import (
	"encoding/json"
	goerrors "errors"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrUnparsable is returned when a model response survives repair but still
// cannot be decoded as JSON. Callers match it with errors.Is to tell a
// hopeless response apart from an empty one.
var ErrUnparsable = goerrors.New("resume parsing failed: unparsable model response")

// RepairJSON takes a raw model response and coaxes a JSON object out of it.
// Markdown fences are stripped, the text is run through jsonrepair, and the
// outermost {...} span is extracted before decoding. A response with no
// object at all yields an empty map and no error; a response whose object
// cannot be decoded yields ErrUnparsable.
func RepairJSON(text string) (map[string]any, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = stripFences(cleaned)

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err == nil {
		cleaned = repaired
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return map[string]any{}, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &data); err != nil {
		return nil, ErrUnparsable
	}
	return data, nil
}

// stripFences removes a leading ```json (or bare ```) fence and its closing
// counterpart.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
