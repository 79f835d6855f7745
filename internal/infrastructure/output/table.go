package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agentos-dev/agentos/internal/engine"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// TableFormatter renders a compile result as a human-readable summary.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

// Format writes the compile result as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(result *engine.Result) error {
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 72), colorGray))
	fmt.Fprintf(f.writer, "Profile:  %s\n", f.colorize(result.ProfileID, colorBold))
	fmt.Fprintf(f.writer, "Run:      %s\n", result.RunID)
	fmt.Fprintf(f.writer, "Duration: %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintln(f.writer)

	if len(result.Documents) == 0 && len(result.Errors) == 0 {
		fmt.Fprintln(f.writer, "No entrypoint documents found.")
		return nil
	}

	fmt.Fprintln(f.writer, f.colorize("Documents:", colorBold))
	for _, doc := range result.Documents {
		status := f.colorize("OK ", colorGreen)
		fmt.Fprintf(f.writer, "  %s %s (%d bytes)\n", status, doc.OutputPath, len(doc.Content))
	}
	for _, expErr := range result.Errors {
		status := f.colorize("ERR", colorRed)
		fmt.Fprintf(f.writer, "  %s %s: %s at %s:%s\n", status, expErr.Document, expErr.Kind, expErr.Path, expErr.Pos)
	}

	if len(result.LazyCopies) > 0 {
		fmt.Fprintf(f.writer, "\nLazy workflow copies: %d\n", len(result.LazyCopies))
	}

	fmt.Fprintln(f.writer)
	summary := fmt.Sprintf("%d succeeded, %d failed", result.Succeeded(), result.Failed())
	if result.HasFailures() {
		summary = f.colorize(summary, colorRed)
	} else {
		summary = f.colorize(summary, colorGreen)
	}
	fmt.Fprintln(f.writer, summary)
	return nil
}
