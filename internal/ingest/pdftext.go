package ingest

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfTextConverter is the raw-mode backend: per-page plain text concatenated
// into both views identically.
type pdfTextConverter struct{}

func (c *pdfTextConverter) Convert(path string) (string, string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(text)
	}

	text := b.String()
	return text, text, nil
}
