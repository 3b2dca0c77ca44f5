package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	cvlensErrors "cvlens/internal/errors"
)

type stubConverter struct {
	formatted string
	plain     string
	err       error
}

func (s *stubConverter) Convert(path string) (string, string, error) {
	return s.formatted, s.plain, s.err
}

func newTestLogger() *cvlensErrors.Logger {
	logger, _ := cvlensErrors.New("error")
	return logger
}

func writeTempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestReadMissingFile(t *testing.T) {
	r := NewReaderWithBackends(&stubConverter{}, &stubConverter{}, newTestLogger())

	_, err := r.Read(filepath.Join(t.TempDir(), "absent.pdf"), ModeStructured)
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var pipeErr *cvlensErrors.PipelineError
	if !errors.As(err, &pipeErr) {
		t.Fatalf("expected PipelineError, got %T", err)
	}
	if pipeErr.Code != cvlensErrors.CodeFileNotFound {
		t.Errorf("expected code %d, got %d", cvlensErrors.CodeFileNotFound, pipeErr.Code)
	}
}

func TestReadUnsupportedMode(t *testing.T) {
	r := NewReaderWithBackends(&stubConverter{}, &stubConverter{}, newTestLogger())
	path := writeTempFile(t)

	_, err := r.Read(path, Mode("html"))
	var pipeErr *cvlensErrors.PipelineError
	if !errors.As(err, &pipeErr) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pipeErr.Code != cvlensErrors.CodeUnsupportedMode {
		t.Errorf("expected code %d, got %d", cvlensErrors.CodeUnsupportedMode, pipeErr.Code)
	}
}

func TestReadStructuredMode(t *testing.T) {
	structured := &stubConverter{formatted: "## Heading\nbody", plain: "Heading\nbody"}
	r := NewReaderWithBackends(structured, &stubConverter{}, newTestLogger())
	path := writeTempFile(t)

	got, err := r.Read(path, ModeStructured)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Formatted != "## Heading\nbody" || got.Plain != "Heading\nbody" {
		t.Errorf("unexpected views: %+v", got)
	}
}

func TestReadRawModeIdenticalViews(t *testing.T) {
	raw := &stubConverter{formatted: "page one page two", plain: "page one page two"}
	r := NewReaderWithBackends(&stubConverter{}, raw, newTestLogger())
	path := writeTempFile(t)

	got, err := r.Read(path, ModeRaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Formatted != got.Plain {
		t.Errorf("raw mode views must be identical, got %q and %q", got.Formatted, got.Plain)
	}
}

func TestReadBackendFailure(t *testing.T) {
	failing := &stubConverter{err: errors.New("corrupt document")}
	r := NewReaderWithBackends(failing, &stubConverter{}, newTestLogger())
	path := writeTempFile(t)

	_, err := r.Read(path, ModeStructured)
	var pipeErr *cvlensErrors.PipelineError
	if !errors.As(err, &pipeErr) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pipeErr.Code != cvlensErrors.CodeReadFailed {
		t.Errorf("expected code %d, got %d", cvlensErrors.CodeReadFailed, pipeErr.Code)
	}
}

func TestMarkdownify(t *testing.T) {
	in := "JOHN DOE\nSoftware engineer with 5 years\n\nWORK EXPERIENCE\nAcme Corp"
	out := markdownify(in)

	want := "## JOHN DOE\nSoftware engineer with 5 years\n\n## WORK EXPERIENCE\nAcme Corp"
	if out != want {
		t.Errorf("markdownify:\ngot  %q\nwant %q", out, want)
	}
}
