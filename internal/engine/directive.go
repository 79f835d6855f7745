// Package engine expands template directives over a merged profile tree
// and orchestrates the per-document compilation batch.
package engine

import (
	"github.com/agentos-dev/agentos/internal/domain/entities"
)

// Node is one element of a parsed template: literal text or a directive.
// The variant set is closed; the expander switches exhaustively over it.
type Node interface {
	node()
}

// LiteralNode is verbatim template text, emitted untouched. Bare
// @agent-os/... runtime references live inside literals and are never
// interpreted by the compiler.
type LiteralNode struct {
	Text string
}

// IncludeNode splices another merged-tree file, e.g. {{workflows/x/y}}.
// The .md suffix may be omitted in the directive.
type IncludeNode struct {
	Path string
	Pos  entities.Position
}

// WildcardNode expands every tree path matching a doublestar pattern,
// e.g. {{standards/*}} or {{standards/backend/*}}. A trailing /* covers
// the pattern's whole subtree, nested directories included.
type WildcardNode struct {
	Pattern string
	Pos     entities.Position
}

// ConditionalNode guards a body on a config flag: {{IF flag}}...{{ENDIF
// flag}} or, negated, {{UNLESS flag}}...{{ENDUNLESS flag}}.
type ConditionalNode struct {
	Flag   string
	Negate bool
	Body   []Node
	Pos    entities.Position
}

// PhaseNode inlines a command file under a descriptive heading:
// {{PHASE <label>: <path>}}. Labels carry no ordering semantics.
type PhaseNode struct {
	Label string
	Path  string
	Pos   entities.Position
}

// VariableNode substitutes a scalar from config, e.g. {{project_name}}.
// Undefined variables are left as their literal directive text (Raw).
type VariableNode struct {
	Name string
	Raw  string
	Pos  entities.Position
}

func (LiteralNode) node()     {}
func (IncludeNode) node()     {}
func (WildcardNode) node()    {}
func (ConditionalNode) node() {}
func (PhaseNode) node()       {}
func (VariableNode) node()    {}
