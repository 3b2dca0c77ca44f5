// Package ingest converts source resume documents into text views the
// parsing pipeline can consume.
package ingest

import (
	"os"

	"cvlens/internal/errors"
)

// Mode selects how a document is turned into text.
type Mode string

const (
	// ModeStructured uses the document-conversion backend and produces a
	// structure-preserving formatted view alongside the plain view.
	ModeStructured Mode = "structured"
	// ModeRaw concatenates per-page plain text from the PDF backend into
	// both views identically.
	ModeRaw Mode = "raw"
)

// ExtractedText holds the two immutable text views produced for a document.
type ExtractedText struct {
	Formatted string
	Plain     string
}

// Converter turns a document on disk into formatted and plain text views.
type Converter interface {
	Convert(path string) (formatted, plain string, err error)
}

// Reader extracts text content from resume files through pluggable
// conversion backends.
type Reader struct {
	structured Converter
	raw        Converter
	logger     *errors.Logger
}

// NewReader creates a Reader with the default backends: docconv for
// structured conversion and direct PDF text extraction for raw mode.
func NewReader(logger *errors.Logger) *Reader {
	return &Reader{
		structured: &docconvConverter{},
		raw:        &pdfTextConverter{},
		logger:     logger,
	}
}

// NewReaderWithBackends creates a Reader with explicit backends. Used by
// tests and by callers that need a different conversion stack.
func NewReaderWithBackends(structured, raw Converter, logger *errors.Logger) *Reader {
	return &Reader{structured: structured, raw: raw, logger: logger}
}

// Read extracts text from the resume at path. Reading has no side effects
// beyond the file read itself.
func (r *Reader) Read(path string, mode Mode) (ExtractedText, error) {
	if err := r.validate(path, mode); err != nil {
		return ExtractedText{}, err
	}

	backend := r.structured
	if mode == ModeRaw {
		backend = r.raw
	}

	formatted, plain, err := backend.Convert(path)
	if err != nil {
		r.logger.LogError(err, "Failed to read resume", "path", path, "mode", string(mode))
		return ExtractedText{}, errors.NewIngestionError(errors.CodeReadFailed,
			"Failed to read resume file", err).WithDetail("path", path)
	}

	return ExtractedText{Formatted: formatted, Plain: plain}, nil
}

func (r *Reader) validate(path string, mode Mode) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.NewIngestionError(errors.CodeFileNotFound,
			"Resume file not found", nil).WithDetail("path", path)
	}

	if mode != ModeStructured && mode != ModeRaw {
		return errors.NewIngestionError(errors.CodeUnsupportedMode,
			"Unsupported output mode. Use structured or raw", nil).
			WithDetail("mode", string(mode))
	}

	return nil
}
