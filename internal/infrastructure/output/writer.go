package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentos-dev/agentos/internal/domain/entities"
	"github.com/agentos-dev/agentos/internal/engine"
)

// TreeWriter materializes a compile result's agent-os/ tree on disk.
// Everything is staged into a temporary directory first and swapped into
// place only once the full batch is written, so a reader never observes
// a half-written tree. A batch with failed documents still commits the
// documents that succeeded; the failures travel in the report.
type TreeWriter struct {
	logger *slog.Logger
}

// NewTreeWriter creates a tree writer. A nil logger falls back to the
// default.
func NewTreeWriter(logger *slog.Logger) *TreeWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TreeWriter{logger: logger}
}

// Write stages the compiled documents and lazy workflow copies under
// destDir and atomically replaces destDir/agent-os with the staged tree.
func (w *TreeWriter) Write(result *engine.Result, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating destination %s: %w", destDir, err)
	}

	staging, err := os.MkdirTemp(destDir, ".agentos-stage-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(staging) // Best-effort cleanup
	}()

	stagedRoot := filepath.Join(staging, entities.OutputRoot)
	if err := os.MkdirAll(stagedRoot, 0o755); err != nil {
		return fmt.Errorf("creating staged root: %w", err)
	}

	for _, doc := range result.Documents {
		if err := w.stageFile(staging, doc.OutputPath, doc.Content); err != nil {
			return err
		}
	}

	// Sorted for a deterministic write order; content per path is
	// verbatim tree bytes so order never changes the outcome.
	copyPaths := make([]string, 0, len(result.LazyCopies))
	for relPath := range result.LazyCopies {
		copyPaths = append(copyPaths, relPath)
	}
	sort.Strings(copyPaths)
	for _, relPath := range copyPaths {
		outPath := entities.OutputRoot + "/" + relPath
		if err := w.stageFile(staging, outPath, result.LazyCopies[relPath]); err != nil {
			return err
		}
	}

	return w.commit(stagedRoot, filepath.Join(destDir, entities.OutputRoot))
}

func (w *TreeWriter) stageFile(staging, outPath string, content []byte) error {
	if strings.Contains(outPath, "..") {
		return fmt.Errorf("refusing to stage path %q", outPath)
	}
	full := filepath.Join(staging, filepath.FromSlash(outPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("staging %s: %w", outPath, err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("staging %s: %w", outPath, err)
	}
	return nil
}

// commit swaps the staged tree into place. An existing tree is moved
// aside first and restored if the swap fails.
func (w *TreeWriter) commit(stagedRoot, finalRoot string) error {
	stale := finalRoot + ".stale"

	if _, err := os.Stat(finalRoot); err == nil {
		_ = os.RemoveAll(stale)
		if err := os.Rename(finalRoot, stale); err != nil {
			return fmt.Errorf("moving previous output aside: %w", err)
		}
	}

	if err := os.Rename(stagedRoot, finalRoot); err != nil {
		if _, statErr := os.Stat(stale); statErr == nil {
			_ = os.Rename(stale, finalRoot)
		}
		return fmt.Errorf("committing output tree: %w", err)
	}

	_ = os.RemoveAll(stale)
	w.logger.Debug("output tree committed", "root", finalRoot)
	return nil
}
