// Package output renders compile reports and materializes compiled
// trees on disk.
package output

import (
	"github.com/agentos-dev/agentos/internal/engine"
)

// Report is the serializable view of a compile run: everything the
// operator or CI needs, without the document bodies.
type Report struct {
	Profile    string           `yaml:"profile"`
	RunID      string           `yaml:"run_id"`
	DurationMS int64            `yaml:"duration_ms"`
	Succeeded  int              `yaml:"succeeded"`
	Failed     int              `yaml:"failed"`
	Documents  []DocumentReport `yaml:"documents"`
	Errors     []ErrorReport    `yaml:"errors,omitempty"`
}

// DocumentReport summarizes one compiled document.
type DocumentReport struct {
	Source   string   `yaml:"source"`
	Output   string   `yaml:"output"`
	Bytes    int      `yaml:"bytes"`
	Flags    []string `yaml:"flags,omitempty"`
	Includes []string `yaml:"includes,omitempty"`
}

// ErrorReport summarizes one per-document failure.
type ErrorReport struct {
	Kind     string `yaml:"kind"`
	Document string `yaml:"document"`
	Path     string `yaml:"path"`
	Line     int    `yaml:"line"`
	Column   int    `yaml:"column"`
	Profile  string `yaml:"profile,omitempty"`
	Message  string `yaml:"message"`
}

// NewReport builds the report view from an engine result.
func NewReport(result *engine.Result) *Report {
	report := &Report{
		Profile:    result.ProfileID,
		RunID:      result.RunID,
		DurationMS: result.Duration.Milliseconds(),
		Succeeded:  result.Succeeded(),
		Failed:     result.Failed(),
	}
	for _, doc := range result.Documents {
		report.Documents = append(report.Documents, DocumentReport{
			Source:   doc.SourcePath,
			Output:   doc.OutputPath,
			Bytes:    len(doc.Content),
			Flags:    doc.ConsumedFlags,
			Includes: doc.ResolvedIncludes,
		})
	}
	for _, expErr := range result.Errors {
		report.Errors = append(report.Errors, ErrorReport{
			Kind:     string(expErr.Kind),
			Document: expErr.Document,
			Path:     expErr.Path,
			Line:     expErr.Pos.Line,
			Column:   expErr.Pos.Column,
			Profile:  expErr.ProfileID,
			Message:  expErr.Message,
		})
	}
	return report
}

// Formatter renders a compile result to a writer.
type Formatter interface {
	Format(result *engine.Result) error
}
