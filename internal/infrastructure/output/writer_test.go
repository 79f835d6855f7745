package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentos-dev/agentos/internal/domain/entities"
	"github.com/agentos-dev/agentos/internal/engine"
)

func testResult() *engine.Result {
	return &engine.Result{
		RunID:     "test-run",
		ProfileID: "default",
		Documents: []entities.CompiledDocument{
			{
				SourcePath: "commands/plan.md",
				OutputPath: "agent-os/commands/plan.md",
				Content:    []byte("# Plan\n"),
			},
			{
				SourcePath: "agents/helper.md",
				OutputPath: "agent-os/agents/helper.md",
				Content:    []byte("agent body\n"),
			},
		},
		LazyCopies: map[string][]byte{
			"workflows/impl/run.md": []byte("Run it.\n"),
		},
	}
}

func readOutput(t *testing.T, destDir, relPath string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(relPath)))
	require.NoError(t, err)
	return string(data)
}

func Test_TreeWriter_WritesDocumentsAndLazyCopies(t *testing.T) {
	t.Parallel()

	destDir := t.TempDir()
	err := NewTreeWriter(nil).Write(testResult(), destDir)

	require.NoError(t, err)
	assert.Equal(t, "# Plan\n", readOutput(t, destDir, "agent-os/commands/plan.md"))
	assert.Equal(t, "agent body\n", readOutput(t, destDir, "agent-os/agents/helper.md"))
	assert.Equal(t, "Run it.\n", readOutput(t, destDir, "agent-os/workflows/impl/run.md"))
}

func Test_TreeWriter_ReplacesPreviousTree(t *testing.T) {
	t.Parallel()

	destDir := t.TempDir()
	writer := NewTreeWriter(nil)
	require.NoError(t, writer.Write(testResult(), destDir))

	// Recompile without the agents document; the stale file must not
	// survive the swap.
	next := testResult()
	next.Documents = next.Documents[:1]
	next.LazyCopies = nil
	require.NoError(t, writer.Write(next, destDir))

	assert.Equal(t, "# Plan\n", readOutput(t, destDir, "agent-os/commands/plan.md"))
	_, err := os.Stat(filepath.Join(destDir, "agent-os", "agents", "helper.md"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(destDir, "agent-os.stale"))
	assert.True(t, os.IsNotExist(err))
}

func Test_TreeWriter_NoStagingLeftovers(t *testing.T) {
	t.Parallel()

	destDir := t.TempDir()
	require.NoError(t, NewTreeWriter(nil).Write(testResult(), destDir))

	entries, err := os.ReadDir(destDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "agent-os", entries[0].Name())
}

func Test_TreeWriter_RejectsEscapingPath(t *testing.T) {
	t.Parallel()

	result := testResult()
	result.Documents[0].OutputPath = "agent-os/../../etc/cron.md"

	err := NewTreeWriter(nil).Write(result, t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to stage")
}

func Test_TreeWriter_CreatesDestDir(t *testing.T) {
	t.Parallel()

	destDir := filepath.Join(t.TempDir(), "nested", "dest")
	err := NewTreeWriter(nil).Write(testResult(), destDir)

	require.NoError(t, err)
	assert.Equal(t, "# Plan\n", readOutput(t, destDir, "agent-os/commands/plan.md"))
}
