package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"code.sajari.com/docconv"
)

// docconvConverter is the structured-mode backend. docconv preserves line
// structure but has no markdown export, so the formatted view is a heuristic
// markdown projection of the converted body.
type docconvConverter struct{}

var headingLine = regexp.MustCompile(`^[A-Z][A-Z \t&/-]{2,40}$`)

func (c *docconvConverter) Convert(path string) (string, string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", "", fmt.Errorf("document conversion failed: %w", err)
	}

	plain := res.Body
	return markdownify(plain), plain, nil
}

// markdownify promotes likely section headings to markdown headers so the
// formatted view keeps the document's visible structure. A heading is a
// short upper-case line, optionally followed by a blank separator.
func markdownify(text string) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if headingLine.MatchString(trimmed) {
			b.WriteString("## ")
			b.WriteString(trimmed)
		} else {
			b.WriteString(line)
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}
