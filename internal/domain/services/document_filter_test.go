package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DocumentFilter_EmptyExpression_MatchesAll(t *testing.T) {
	t.Parallel()

	filter, err := NewDocumentFilter("  ")
	require.NoError(t, err)

	ok, err := filter.Matches("agents/implementer.md")
	require.NoError(t, err)
	assert.True(t, ok)
}

func Test_DocumentFilter_NilFilter_MatchesAll(t *testing.T) {
	t.Parallel()

	var filter *DocumentFilter
	ok, err := filter.Matches("commands/plan-product.md")

	require.NoError(t, err)
	assert.True(t, ok)
}

func Test_DocumentFilter_ByNamespace(t *testing.T) {
	t.Parallel()

	filter, err := NewDocumentFilter(`namespace == "commands"`)
	require.NoError(t, err)

	ok, err := filter.Matches("commands/plan-product.md")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = filter.Matches("agents/implementer.md")
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_DocumentFilter_ByName(t *testing.T) {
	t.Parallel()

	filter, err := NewDocumentFilter(`name startsWith "plan"`)
	require.NoError(t, err)

	ok, err := filter.Matches("commands/plan-product.md")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = filter.Matches("commands/implement-tasks.md")
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_DocumentFilter_InvalidExpression_Fails(t *testing.T) {
	t.Parallel()

	_, err := NewDocumentFilter(`namespace ==`)
	assert.Error(t, err)
}

func Test_DocumentFilter_NonBooleanExpression_Fails(t *testing.T) {
	t.Parallel()

	_, err := NewDocumentFilter(`path`)
	assert.Error(t, err)
}
