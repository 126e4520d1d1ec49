package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// pdftotext emits pages separated by form feed characters.
const pageSeparator = "\f"

// IngestPDF extracts text from a PDF with pdftotext and ingests each page
// as one unit under bounded concurrency. Pages that extract to only
// whitespace are skipped. Page numbering is 1-based and counts all pages,
// including skipped ones, so unit IDs match the document.
func (l *Loader) IngestPDF(ctx context.Context, path string) (Result, error) {
	out, err := l.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return Result{}, fmt.Errorf("extracting pdf text: %w", err)
	}

	name := filepath.Base(path)
	var units []Unit
	for i, page := range strings.Split(string(out), pageSeparator) {
		if strings.TrimSpace(page) == "" {
			continue
		}
		units = append(units, Unit{
			ID:      fmt.Sprintf("%s:page:%d", name, i+1),
			Content: page,
		})
	}

	return l.runUnits(ctx, units), nil
}
