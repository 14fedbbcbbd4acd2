// Package extract performs page-wise text extraction from uploaded files.
//
// Extraction is deliberately dumb about storage: extractors receive raw file
// bytes and return plain text per page. OCR is consumed as an external
// capability through the OCR hook; pages with no machine-readable text layer
// are handed to it as single-page PDFs.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// OCR converts a single-page PDF into text. Implementations wrap an external
// OCR engine; a nil hook disables OCR and image-only pages yield empty text.
type OCR func(ctx context.Context, pagePDF []byte) (string, error)

// Extractor extracts text from one file format.
type Extractor interface {
	// PageCount returns the number of pages in the file. Formats without a
	// page concept report a single page.
	PageCount(data []byte) (int, error)

	// ExtractPage returns the plain text of one page (zero-based).
	ExtractPage(ctx context.Context, data []byte, page int) (string, error)
}

// Error is a per-file extraction failure. It is non-fatal to the batch.
type Error struct {
	File string
	Page int // -1 when the failure is not page-specific
	Err  error
}

func (e *Error) Error() string {
	if e.Page >= 0 {
		return fmt.Sprintf("extract %s page %d: %v", e.File, e.Page+1, e.Err)
	}
	return fmt.Sprintf("extract %s: %v", e.File, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Registry maps file extensions to extractors.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry builds the default registry: PDF (with the given OCR hook),
// plain text, markdown and DOCX.
func NewRegistry(ocr OCR) *Registry {
	return &Registry{byExt: map[string]Extractor{
		".pdf":      &PDF{OCR: ocr},
		".txt":      PlainText{},
		".md":       Markdown{},
		".markdown": Markdown{},
		".docx":     DOCX{},
	}}
}

// ForFile returns the extractor for a filename, or false when the file type
// is unsupported.
func (r *Registry) ForFile(filename string) (Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	x, ok := r.byExt[ext]
	return x, ok
}

// Supported returns the registered extensions, for error messages.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
