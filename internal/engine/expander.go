package engine

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentos-dev/agentos/internal/domain/entities"
)

// MaxIncludeDepth caps directive recursion. The expansion stack catches
// true cycles; the cap stops degenerate non-cyclic nesting.
const MaxIncludeDepth = 8

const workflowsPrefix = "workflows/"

// lazyPointer is the line emitted in place of an inlined workflow when
// lazy_load_workflows is set. The @agent-os/ reference resolves at agent
// runtime against the verbatim copy staged into the output tree.
func lazyPointer(relPath string) string {
	return "Read and follow the workflow instructions at: @agent-os/" + relPath + "\n"
}

// Expander compiles one entrypoint document at a time against an
// immutable merged tree and config. It holds no per-document state, so a
// single Expander may serve concurrent Expand calls.
type Expander struct {
	tree   *entities.MergedTree
	config entities.Config
}

// NewExpander creates an expander over the merged tree and run config.
func NewExpander(tree *entities.MergedTree, config entities.Config) *Expander {
	return &Expander{tree: tree, config: config}
}

// ExpandedDocument couples a compiled document with the workflow files
// lazy mode marked for verbatim copy into the output tree.
type ExpandedDocument struct {
	Document   entities.CompiledDocument
	LazyCopies map[string][]byte
}

// Expand fully expands the entrypoint at relPath. On failure the
// returned error is an *entities.ExpansionError scoped to this document.
func (e *Expander) Expand(relPath string) (*ExpandedDocument, error) {
	if _, ok := e.tree.Get(relPath); !ok {
		return nil, &entities.ExpansionError{
			Kind:     entities.ErrUnresolvedInclude,
			Document: relPath,
			Path:     relPath,
			Message:  "entrypoint not present in merged tree",
		}
	}

	run := &expansion{
		tree:       e.tree,
		config:     e.config,
		inStack:    make(map[string]bool),
		emitted:    make(emittedSet),
		flagSeen:   make(map[string]bool),
		lazyCopies: make(map[string][]byte),
	}

	text, expErr := run.expandFile(relPath)
	if expErr != nil {
		expErr.Document = relPath
		return nil, expErr
	}

	return &ExpandedDocument{
		Document: entities.CompiledDocument{
			SourcePath:       relPath,
			OutputPath:       path.Join(entities.OutputRoot, relPath),
			Content:          []byte(text),
			ConsumedFlags:    run.flags,
			ResolvedIncludes: run.includes,
		},
		LazyCopies: run.lazyCopies,
	}, nil
}

// expansion is the bookkeeping for one document: the include stack for
// cycle/depth guarding, the standards dedupe set, and the consumed-flag
// and resolved-include diagnostics.
type expansion struct {
	tree   *entities.MergedTree
	config entities.Config

	stack   []string
	inStack map[string]bool

	emitted    emittedSet
	flags      []string
	flagSeen   map[string]bool
	includes   []string
	lazyCopies map[string][]byte
}

func (x *expansion) expandFile(relPath string) (string, *entities.ExpansionError) {
	file, _ := x.tree.Get(relPath)

	x.stack = append(x.stack, relPath)
	x.inStack[relPath] = true
	defer func() {
		x.stack = x.stack[:len(x.stack)-1]
		delete(x.inStack, relPath)
	}()

	nodes, parseErr := parseTemplate(string(file.Content), relPath)
	if parseErr != nil {
		parseErr.ProfileID = file.ProfileID
		return "", parseErr
	}

	var b strings.Builder
	if err := x.evalNodes(nodes, file, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (x *expansion) evalNodes(nodes []Node, file entities.TemplateFile, b *strings.Builder) *entities.ExpansionError {
	for _, node := range nodes {
		switch n := node.(type) {
		case LiteralNode:
			b.WriteString(n.Text)

		case VariableNode:
			if value, ok := x.config.Var(n.Name); ok {
				b.WriteString(value)
			} else {
				b.WriteString(n.Raw)
			}

		case ConditionalNode:
			x.consumeFlag(n.Flag)
			if x.config.Flag(n.Flag) != n.Negate {
				if err := x.evalNodes(n.Body, file, b); err != nil {
					return err
				}
			}

		case IncludeNode:
			target, ok := x.resolve(n.Path)
			if !ok {
				return x.unresolved(file, n.Pos, n.Path)
			}
			text, _, err := x.emitInclude(target, file, n.Pos)
			if err != nil {
				return err
			}
			b.WriteString(text)

		case PhaseNode:
			target, ok := x.resolve(n.Path)
			if !ok {
				return x.unresolved(file, n.Pos, n.Path)
			}
			x.includes = append(x.includes, target)
			text, err := x.expandTarget(target, file, n.Pos)
			if err != nil {
				return err
			}
			b.WriteString("## " + n.Label + "\n\n")
			b.WriteString(text)

		case WildcardNode:
			if err := x.evalWildcard(n, file, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// emitInclude produces the expansion of one include target: nothing for
// an already-claimed standards file, a pointer line for a lazy workflow,
// or the recursively expanded content. The bool reports whether anything
// was emitted.
func (x *expansion) emitInclude(target string, file entities.TemplateFile, pos entities.Position) (string, bool, *entities.ExpansionError) {
	if isStandardsPath(target) && !x.emitted.claim(target) {
		return "", false, nil
	}
	x.includes = append(x.includes, target)

	if strings.HasPrefix(target, workflowsPrefix) {
		// Routing a workflow include consults the lazy flag the same way
		// a conditional consults its guard, so it is recorded either way.
		x.consumeFlag(entities.FlagLazyLoadWorkflows)
		if x.config.LazyWorkflows() {
			copied, _ := x.tree.Get(target)
			x.lazyCopies[target] = copied.Content
			return lazyPointer(target), true, nil
		}
	}

	text, err := x.expandTarget(target, file, pos)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (x *expansion) evalWildcard(n WildcardNode, file entities.TemplateFile, b *strings.Builder) *entities.ExpansionError {
	if !entities.IsKnownNamespace(n.Pattern) {
		err := entities.NewExpansionError(entities.ErrUnknownWildcardNamespace, file.Path, n.Pos,
			fmt.Sprintf("wildcard %q is outside agents/, commands/, workflows/ and standards/", n.Pattern))
		err.ProfileID = file.ProfileID
		return err
	}

	// A trailing /* selects the whole subtree. Doublestar's single *
	// stops at path separators, so widen it; a broad standards pull must
	// claim nested files before any narrower pattern sees them.
	pattern := n.Pattern
	if strings.HasSuffix(pattern, "/*") {
		pattern += "*"
	}

	// Tree paths come back sorted; match order is lexicographic by
	// construction, never map order.
	var matches []string
	for _, candidate := range x.tree.Paths() {
		ok, matchErr := doublestar.Match(pattern, candidate)
		if matchErr != nil {
			err := entities.NewExpansionError(entities.ErrUnresolvedInclude, file.Path, n.Pos,
				fmt.Sprintf("invalid wildcard pattern %q", n.Pattern))
			err.ProfileID = file.ProfileID
			return err
		}
		if ok {
			matches = append(matches, candidate)
		}
	}

	var pieces []string
	for _, target := range matches {
		text, emitted, err := x.emitInclude(target, file, n.Pos)
		if err != nil {
			return err
		}
		if emitted {
			pieces = append(pieces, text)
		}
	}
	b.WriteString(strings.Join(pieces, "\n\n"))
	return nil
}

// expandTarget recursively expands an include target with cycle and
// depth guarding. The error names the full inclusion path.
func (x *expansion) expandTarget(target string, file entities.TemplateFile, pos entities.Position) (string, *entities.ExpansionError) {
	if x.inStack[target] {
		err := entities.NewExpansionError(entities.ErrCyclicInclude, file.Path, pos,
			fmt.Sprintf("including %s closes an inclusion cycle", target))
		err.ProfileID = file.ProfileID
		err.IncludeStack = append(slices.Clone(x.stack), target)
		return "", err
	}
	if len(x.stack) >= MaxIncludeDepth {
		err := entities.NewExpansionError(entities.ErrMaxDepthExceeded, file.Path, pos,
			fmt.Sprintf("inclusion nests deeper than %d files", MaxIncludeDepth))
		err.ProfileID = file.ProfileID
		err.IncludeStack = append(slices.Clone(x.stack), target)
		return "", err
	}
	return x.expandFile(target)
}

// resolve maps a directive path reference to a merged-tree path. The .md
// suffix may be omitted in directives.
func (x *expansion) resolve(ref string) (string, bool) {
	if _, ok := x.tree.Get(ref); ok {
		return ref, true
	}
	withExt := ref + ".md"
	if _, ok := x.tree.Get(withExt); ok {
		return withExt, true
	}
	return "", false
}

func (x *expansion) consumeFlag(name string) {
	if x.flagSeen[name] {
		return
	}
	x.flagSeen[name] = true
	x.flags = append(x.flags, name)
}

func (x *expansion) unresolved(file entities.TemplateFile, pos entities.Position, ref string) *entities.ExpansionError {
	err := entities.NewExpansionError(entities.ErrUnresolvedInclude, file.Path, pos,
		fmt.Sprintf("included path %q does not exist in the merged tree", ref))
	err.ProfileID = file.ProfileID
	return err
}
