package engine

import (
	"time"

	"github.com/agentos-dev/agentos/internal/domain/entities"
)

// Result is the outcome of one compile run: the compiled documents in
// entrypoint order, the workflow files marked for verbatim copy in lazy
// mode, and the per-document failures. RunID and Duration are run
// diagnostics; they never influence document bytes.
type Result struct {
	RunID     string
	ProfileID string

	Documents  []entities.CompiledDocument
	LazyCopies map[string][]byte
	Errors     []*entities.ExpansionError

	Duration time.Duration
}

// Succeeded returns the number of documents that compiled.
func (r *Result) Succeeded() int {
	return len(r.Documents)
}

// Failed returns the number of documents that did not compile.
func (r *Result) Failed() int {
	return len(r.Errors)
}

// HasFailures reports whether any document failed.
func (r *Result) HasFailures() bool {
	return len(r.Errors) > 0
}
