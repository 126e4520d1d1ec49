// Package source loads documents from external sources (folders, CSV
// files, PDFs) into the knowledge store.
//
// Each source is decomposed into independent ingestion units (a CSV row,
// a PDF page, a text file). Units run under bounded concurrency; one
// unit's failure never aborts its siblings, and every batch returns an
// aggregate result naming the units that failed.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/onwyhq/onwy/internal/knowledge"
)

// MaxInFlight is the maximum number of ingestion units processed
// concurrently within one batch. Units beyond the cap queue in
// submission order.
const MaxInFlight = 5

// ResourceCreator is the ingestion capability the loader needs.
// Satisfied by *knowledge.Store.
type ResourceCreator interface {
	CreateResource(ctx context.Context, input knowledge.ResourceInput) (string, error)
}

// CommandRunner executes an external command and returns its stdout.
// Abstracted so PDF extraction can be tested without a pdftotext binary.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner is the production CommandRunner backed by os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	return out, nil
}

// Unit is one independently ingestible piece of a source: a CSV row, a
// PDF page, or a whole text file. ID identifies the unit in logs and in
// batch results (e.g. "faq.csv:row:3").
type Unit struct {
	ID      string
	Content string
}

// toInput converts a unit to the store's ingestion input.
func toInput(u Unit) knowledge.ResourceInput {
	return knowledge.ResourceInput{Content: u.Content}
}

// Result aggregates the outcome of one batch. A batch never aborts on
// unit failure, so callers must inspect Failed/FailedUnits rather than
// rely on an error return.
type Result struct {
	Succeeded   int
	Failed      int
	FailedUnits []string
}

// Loader ingests source files into the knowledge store.
type Loader struct {
	store  ResourceCreator
	runner CommandRunner
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithCommandRunner substitutes the external command runner. Tests use
// this to fake pdftotext output.
func WithCommandRunner(r CommandRunner) Option {
	return func(l *Loader) {
		l.runner = r
	}
}

// IngestText ingests an already-read text document as a single unit.
func (l *Loader) IngestText(ctx context.Context, name, content string) Result {
	return l.runUnits(ctx, []Unit{{ID: name, Content: content}})
}

// NewLoader creates a Loader over the given store.
func NewLoader(store ResourceCreator, logger *slog.Logger, opts ...Option) (*Loader, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &Loader{
		store:  store,
		runner: execRunner{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}
