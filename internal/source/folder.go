package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// textExtensions are ingested whole-file, one unit per file.
var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// IngestFolder processes every supported file in dir (non-recursive),
// dispatching by extension: .csv row-wise, .pdf page-wise, .txt/.md as a
// single unit each. Unsupported files are skipped. Per-file extraction
// failures are recorded in the aggregate result under the file name, and
// remaining files continue.
func (l *Loader) IngestFolder(ctx context.Context, dir string) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, fmt.Errorf("reading folder: %w", err)
	}

	total := Result{}
	var textUnits []Unit

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)

		var (
			res   Result
			fsErr error
		)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".csv":
			res, fsErr = l.IngestCSV(ctx, path)
		case ".pdf":
			res, fsErr = l.IngestPDF(ctx, path)
		default:
			if textExtensions[strings.ToLower(filepath.Ext(name))] {
				unit, readErr := textUnit(path, name)
				if readErr != nil {
					fsErr = readErr
				} else {
					textUnits = append(textUnits, unit)
					continue
				}
			} else {
				l.logger.Debug("skipping unsupported file", "file", name)
				continue
			}
		}

		if fsErr != nil {
			l.logger.Error("file ingestion failed", "file", name, "error", fsErr)
			total.Failed++
			total.FailedUnits = append(total.FailedUnits, name)
			continue
		}
		merge(&total, res)
	}

	if len(textUnits) > 0 {
		merge(&total, l.runUnits(ctx, textUnits))
	}

	return total, nil
}

// textUnit reads a whole text file as a single ingestion unit.
func textUnit(path, name string) (Unit, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's folder argument
	if err != nil {
		return Unit{}, fmt.Errorf("reading %s: %w", name, err)
	}
	return Unit{ID: name, Content: string(content)}, nil
}

// merge folds one batch result into the running total.
func merge(total *Result, r Result) {
	total.Succeeded += r.Succeeded
	total.Failed += r.Failed
	total.FailedUnits = append(total.FailedUnits, r.FailedUnits...)
}
