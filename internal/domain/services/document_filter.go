package services

import (
	"fmt"
	"path"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DocumentEnv defines the variables available to filter expressions.
type DocumentEnv struct {
	Path      string `expr:"path"`      // full relative path, e.g. "commands/plan-product.md"
	Namespace string `expr:"namespace"` // first segment: agents, commands, workflows, standards
	Name      string `expr:"name"`      // base name without the .md suffix
}

// DocumentFilter restricts which entrypoint documents a compile run
// expands, using a compiled Expr program. The zero value (or an empty
// expression) selects every document. Filtering only decides whether a
// document compiles, never what its bytes are.
type DocumentFilter struct {
	program *vm.Program
}

// NewDocumentFilter compiles the expression against DocumentEnv.
// An empty or blank expression yields a match-all filter.
func NewDocumentFilter(expression string) (*DocumentFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return &DocumentFilter{}, nil
	}
	program, err := expr.Compile(expression, expr.Env(DocumentEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling document filter %q: %w", expression, err)
	}
	return &DocumentFilter{program: program}, nil
}

// Matches evaluates the filter for one entrypoint path.
func (f *DocumentFilter) Matches(relPath string) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}

	namespace, _, _ := strings.Cut(relPath, "/")
	env := DocumentEnv{
		Path:      relPath,
		Namespace: namespace,
		Name:      strings.TrimSuffix(path.Base(relPath), ".md"),
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating document filter for %s: %w", relPath, err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("document filter did not return a boolean for %s", relPath)
	}
	return matched, nil
}
