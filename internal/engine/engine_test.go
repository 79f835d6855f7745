package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentos-dev/agentos/internal/domain/entities"
	"github.com/agentos-dev/agentos/internal/domain/services"
)

// storefrontRepo builds a three-profile chain: default -> wordpress ->
// woocommerce, exercising inheritance, exclusion, redefinition,
// conditionals and a workflow include in one fixture.
func storefrontRepo(t *testing.T) *entities.ProfileRepository {
	t.Helper()

	base := &entities.Profile{
		ID: "default",
		Files: map[string][]byte{
			"commands/plan-product.md": []byte(
				"# Plan\n\n{{workflows/planning/plan-product.md}}\n" +
					"{{UNLESS use_claude_code_subagents}}Inline agent guidance here.\n{{ENDUNLESS use_claude_code_subagents}}" +
					"{{UNLESS standards_as_claude_code_skills}}{{standards/*}}{{ENDUNLESS standards_as_claude_code_skills}}",
			),
			"workflows/planning/plan-product.md": []byte("Step 1. Gather requirements.\n"),
			"standards/global/conventions.md":    []byte("Use clear names.\n"),
			"standards/global/error-handling.md": []byte("Wrap errors with context.\n"),
		},
	}
	wordpress := &entities.Profile{
		ID:     "wordpress",
		Parent: "default",
		ExcludedInherited: []string{
			"standards/global/error-handling.md",
		},
		Files: map[string][]byte{
			"standards/backend/php.md": []byte("Follow PSR-12.\n"),
		},
	}
	woocommerce := &entities.Profile{
		ID:     "woocommerce",
		Parent: "wordpress",
		Files: map[string][]byte{
			"standards/global/conventions.md": []byte("WooCommerce naming conventions.\n"),
		},
	}

	repo, err := entities.NewProfileRepository(base, wordpress, woocommerce)
	require.NoError(t, err)
	return repo
}

func Test_Engine_Compile_InheritedChain(t *testing.T) {
	t.Parallel()

	engine := New(WithWorkers(1))
	result, err := engine.Compile(context.Background(), "woocommerce", entities.Config{}, storefrontRepo(t))

	require.NoError(t, err)
	require.False(t, result.HasFailures())
	assert.Equal(t, "woocommerce", result.ProfileID)
	assert.NotEmpty(t, result.RunID)

	// Entrypoints: the command plus the (eagerly compiled) workflow.
	require.Equal(t, 2, result.Succeeded())
	command := result.Documents[0]
	assert.Equal(t, "commands/plan-product.md", command.SourcePath)
	assert.Equal(t, "agent-os/commands/plan-product.md", command.OutputPath)

	content := string(command.Content)
	assert.Contains(t, content, "Step 1. Gather requirements.")
	assert.Contains(t, content, "Inline agent guidance here.")
	// Leaf redefinition wins over the root's file.
	assert.Contains(t, content, "WooCommerce naming conventions.")
	assert.NotContains(t, content, "Use clear names.")
	// wordpress excluded the ancestor's error-handling standard.
	assert.NotContains(t, content, "Wrap errors with context.")
	// wordpress's own standard flows down to the leaf.
	assert.Contains(t, content, "Follow PSR-12.")
}

func Test_Engine_Compile_LazyAndGuardedConfig(t *testing.T) {
	t.Parallel()

	config := entities.Config{Flags: map[string]bool{
		entities.FlagLazyLoadWorkflows:   true,
		entities.FlagClaudeCodeSubagents: true,
		entities.FlagStandardsAsSkills:   true,
	}}

	result, err := New().Compile(context.Background(), "woocommerce", config, storefrontRepo(t))

	require.NoError(t, err)
	require.False(t, result.HasFailures())

	// Lazy mode drops workflow entrypoints; only the command compiles.
	require.Equal(t, 1, result.Succeeded())
	content := string(result.Documents[0].Content)

	assert.Contains(t, content, "Read and follow the workflow instructions at: @agent-os/workflows/planning/plan-product.md")
	assert.NotContains(t, content, "Step 1. Gather requirements.")
	assert.NotContains(t, content, "Inline agent guidance here.")
	assert.NotContains(t, content, "WooCommerce naming conventions.")

	require.Contains(t, result.LazyCopies, "workflows/planning/plan-product.md")
	assert.Equal(t, "Step 1. Gather requirements.\n", string(result.LazyCopies["workflows/planning/plan-product.md"]))

	assert.ElementsMatch(t,
		[]string{entities.FlagLazyLoadWorkflows, entities.FlagClaudeCodeSubagents, entities.FlagStandardsAsSkills},
		result.Documents[0].ConsumedFlags)
}

func Test_Engine_Compile_Idempotent(t *testing.T) {
	t.Parallel()

	repo := storefrontRepo(t)
	config := entities.Config{Flags: map[string]bool{entities.FlagLazyLoadWorkflows: true}}
	engine := New()

	first, err := engine.Compile(context.Background(), "woocommerce", config, repo)
	require.NoError(t, err)
	second, err := engine.Compile(context.Background(), "woocommerce", config, repo)
	require.NoError(t, err)

	require.Equal(t, first.Succeeded(), second.Succeeded())
	for i := range first.Documents {
		assert.Equal(t, first.Documents[i].OutputPath, second.Documents[i].OutputPath)
		assert.Equal(t, first.Documents[i].Content, second.Documents[i].Content)
	}
	assert.Equal(t, first.LazyCopies, second.LazyCopies)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func Test_Engine_Compile_FailureIsolation(t *testing.T) {
	t.Parallel()

	broken := &entities.Profile{
		ID: "solo",
		Files: map[string][]byte{
			"commands/bad.md":   []byte("{{workflows/loop}}"),
			"commands/good.md":  []byte("fine\n"),
			"workflows/loop.md": []byte("{{workflows/loop}}"),
		},
	}
	repo, err := entities.NewProfileRepository(broken)
	require.NoError(t, err)

	result, err := New(WithWorkers(2)).Compile(context.Background(), "solo", entities.Config{}, repo)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded())
	require.Equal(t, 2, result.Failed())

	assert.Equal(t, "commands/good.md", result.Documents[0].SourcePath)
	for _, expErr := range result.Errors {
		assert.Equal(t, entities.ErrCyclicInclude, expErr.Kind)
	}
}

func Test_Engine_Compile_UnknownProfile_Aborts(t *testing.T) {
	t.Parallel()

	repo, err := entities.NewProfileRepository()
	require.NoError(t, err)

	_, err = New().Compile(context.Background(), "ghost", entities.Config{}, repo)

	require.Error(t, err)
	var cfgErr *entities.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, entities.ErrMissingProfile, cfgErr.Kind)
}

func Test_Engine_Compile_DocumentFilter(t *testing.T) {
	t.Parallel()

	filter, err := services.NewDocumentFilter(`namespace == "commands"`)
	require.NoError(t, err)

	result, err := New(WithDocumentFilter(filter)).
		Compile(context.Background(), "woocommerce", entities.Config{}, storefrontRepo(t))

	require.NoError(t, err)
	require.Equal(t, 1, result.Succeeded())
	assert.Equal(t, "commands/plan-product.md", result.Documents[0].SourcePath)
}

func Test_Engine_Compile_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Compile(ctx, "woocommerce", entities.Config{}, storefrontRepo(t))

	require.ErrorIs(t, err, context.Canceled)
}

func Test_Engine_Compile_LargeBatchDeterministicOrder(t *testing.T) {
	t.Parallel()

	files := make(map[string][]byte)
	for i := 0; i < 20; i++ {
		files[fmt.Sprintf("commands/cmd-%02d.md", i)] = []byte(fmt.Sprintf("command %d\n", i))
	}
	profile := &entities.Profile{ID: "many", Files: files}
	repo, err := entities.NewProfileRepository(profile)
	require.NoError(t, err)

	result, err := New(WithWorkers(4)).Compile(context.Background(), "many", entities.Config{}, repo)

	require.NoError(t, err)
	require.Equal(t, 20, result.Succeeded())
	for i, doc := range result.Documents {
		assert.Equal(t, fmt.Sprintf("commands/cmd-%02d.md", i), doc.SourcePath)
	}
}
