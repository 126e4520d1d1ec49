package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Column names recognized in CSV headers, checked case-insensitively.
// The content column is required; the title column is optional and is
// prepended to the row content when present.
var (
	contentColumns = []string{"content", "text", "body", "answer"}
	titleColumns   = []string{"title", "name", "subject", "question"}
)

// csvRecord is the validated shape of one CSV row. Rows are loosely typed
// at the file boundary; validation happens once, here, before anything
// reaches the ingestion core.
type csvRecord struct {
	Title   string
	Content string
}

// IngestCSV reads a CSV file and ingests each data row as one unit under
// bounded concurrency. The first row must be a header containing a
// recognized content column. Rows with an empty content cell are counted
// as failed units without being sent to the store.
func (l *Loader) IngestCSV(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the operator's CLI/folder argument
	if err != nil {
		return Result{}, fmt.Errorf("opening csv: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	units, invalid, err := unitsFromCSV(f, filepath.Base(path))
	if err != nil {
		return Result{}, err
	}

	result := l.runUnits(ctx, units)
	for _, id := range invalid {
		l.logger.Error("ingestion unit failed", "unit", id, "error", "empty content cell")
		result.Failed++
		result.FailedUnits = append(result.FailedUnits, id)
	}
	return result, nil
}

// unitsFromCSV parses rows into units, returning the IDs of rows that
// fail validation. Row numbering is 1-based over data rows.
func unitsFromCSV(r io.Reader, name string) (units []Unit, invalid []string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be ragged; validated per-row below

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv header: %w", err)
	}

	contentIdx := findColumn(header, contentColumns)
	if contentIdx < 0 {
		return nil, nil, fmt.Errorf("csv %s: no content column (expected one of %s)",
			name, strings.Join(contentColumns, ", "))
	}
	titleIdx := findColumn(header, titleColumns)

	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading csv row: %w", err)
		}
		row++

		rec := recordFromFields(fields, contentIdx, titleIdx)
		id := fmt.Sprintf("%s:row:%d", name, row)
		if rec.Content == "" {
			invalid = append(invalid, id)
			continue
		}

		content := rec.Content
		if rec.Title != "" {
			content = rec.Title + "\n" + content
		}
		units = append(units, Unit{ID: id, Content: content})
	}

	return units, invalid, nil
}

// recordFromFields extracts a csvRecord, defaulting missing cells to "".
func recordFromFields(fields []string, contentIdx, titleIdx int) csvRecord {
	var rec csvRecord
	if contentIdx < len(fields) {
		rec.Content = strings.TrimSpace(fields[contentIdx])
	}
	if titleIdx >= 0 && titleIdx < len(fields) {
		rec.Title = strings.TrimSpace(fields[titleIdx])
	}
	return rec
}

// findColumn returns the index of the first header cell matching any of
// the candidate names, or -1.
func findColumn(header, candidates []string) int {
	for i, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		for _, c := range candidates {
			if cell == c {
				return i
			}
		}
	}
	return -1
}
