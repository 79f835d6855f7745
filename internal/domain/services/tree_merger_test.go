package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentos-dev/agentos/internal/domain/entities"
)

func resolveChain(t *testing.T, leaf string, profiles ...*entities.Profile) *entities.ResolvedChain {
	t.Helper()
	chain, err := NewChainResolver().Resolve(leaf, mustRepo(t, profiles...))
	require.NoError(t, err)
	return chain
}

func Test_TreeMerger_LeafOverridesRoot(t *testing.T) {
	t.Parallel()
	merger := NewTreeMerger()
	chain := resolveChain(t, "leaf",
		testProfile("root", "", map[string]string{
			"agents/implementer.md": "root version",
			"standards/style.md":    "shared style",
		}),
		testProfile("leaf", "root", map[string]string{
			"agents/implementer.md": "leaf version",
		}),
	)

	tree := merger.Merge(chain)

	file, ok := tree.Get("agents/implementer.md")
	require.True(t, ok)
	assert.Equal(t, "leaf version", string(file.Content))
	assert.Equal(t, "leaf", file.ProfileID)

	style, ok := tree.Get("standards/style.md")
	require.True(t, ok)
	assert.Equal(t, "root", style.ProfileID, "untouched ancestor files keep their provenance")
}

func Test_TreeMerger_ExclusionRemovesAncestorFile(t *testing.T) {
	t.Parallel()
	merger := NewTreeMerger()
	chain := resolveChain(t, "wordpress",
		testProfile("default", "", map[string]string{"standards/backend/api.md": "api"}),
		testProfile("general", "default", nil),
		testProfile("wordpress", "general", nil, "standards/backend/api.md"),
	)

	tree := merger.Merge(chain)

	_, ok := tree.Get("standards/backend/api.md")
	assert.False(t, ok, "excluded ancestor file must not survive the merge")
}

func Test_TreeMerger_LeafRedefinitionBeatsAncestorExclusion(t *testing.T) {
	t.Parallel()
	merger := NewTreeMerger()
	chain := resolveChain(t, "woocommerce",
		testProfile("default", "", map[string]string{"standards/backend/api.md": "default api"}),
		testProfile("general", "default", nil),
		testProfile("wordpress", "general", nil, "standards/backend/api.md"),
		testProfile("woocommerce", "wordpress", map[string]string{"standards/backend/api.md": "woo api"}),
	)

	tree := merger.Merge(chain)

	file, ok := tree.Get("standards/backend/api.md")
	require.True(t, ok, "a profile's own file is never removed by an ancestor-targeting exclusion")
	assert.Equal(t, "woo api", string(file.Content))
	assert.Equal(t, "woocommerce", file.ProfileID)
}

func Test_TreeMerger_ExcluderOwnRedefinitionWins(t *testing.T) {
	t.Parallel()
	merger := NewTreeMerger()
	chain := resolveChain(t, "leaf",
		testProfile("root", "", map[string]string{"commands/plan.md": "root plan"}),
		testProfile("leaf", "root", map[string]string{"commands/plan.md": "leaf plan"}, "commands/plan.md"),
	)

	tree := merger.Merge(chain)

	file, ok := tree.Get("commands/plan.md")
	require.True(t, ok)
	assert.Equal(t, "leaf plan", string(file.Content), "an exclusion never strikes the excluding profile's own file")
}

func Test_TreeMerger_ReservedNamesFollowSameRules(t *testing.T) {
	t.Parallel()
	merger := NewTreeMerger()
	chain := resolveChain(t, "leaf",
		testProfile("root", "", map[string]string{
			"standards/_index.md": "root index",
			"standards/_toc.md":   "root toc",
		}),
		testProfile("leaf", "root", map[string]string{
			"standards/_index.md": "leaf index",
		}, "standards/_toc.md"),
	)

	tree := merger.Merge(chain)

	index, ok := tree.Get("standards/_index.md")
	require.True(t, ok)
	assert.Equal(t, "leaf index", string(index.Content))

	_, ok = tree.Get("standards/_toc.md")
	assert.False(t, ok)
}

func Test_TreeMerger_Deterministic(t *testing.T) {
	t.Parallel()
	merger := NewTreeMerger()
	chain := resolveChain(t, "leaf",
		testProfile("root", "", map[string]string{
			"agents/a.md":      "a",
			"commands/b.md":    "b",
			"workflows/c.md":   "c",
			"standards/d.md":   "d",
			"standards/e/f.md": "f",
		}),
		testProfile("leaf", "root", map[string]string{
			"agents/a.md":    "a2",
			"standards/d.md": "d2",
		}),
	)

	first := merger.Merge(chain)
	second := merger.Merge(chain)

	require.Equal(t, first.Paths(), second.Paths())
	for _, path := range first.Paths() {
		a, _ := first.Get(path)
		b, _ := second.Get(path)
		assert.Equal(t, a, b)
	}
}
