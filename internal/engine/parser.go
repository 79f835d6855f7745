package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentos-dev/agentos/internal/domain/entities"
)

// Flag and variable names are snake_case identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// parser builds the directive tree from a flat token stream. Only
// conditionals nest; everything else is a leaf.
type parser struct {
	tokens []token
	pos    int
	path   string
}

// parseTemplate parses raw template content for the file at relPath.
// The only parse-time failure is a malformed conditional: every other
// directive shape degrades to literal text or is validated at expansion.
func parseTemplate(content, relPath string) ([]Node, *entities.ExpansionError) {
	p := &parser{tokens: lex(content), path: relPath}
	nodes, err := p.parseNodes(nil)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// openConditional describes the enclosing IF/UNLESS while parsing a body.
type openConditional struct {
	closer string // "ENDIF" or "ENDUNLESS"
	flag   string
	pos    entities.Position
}

func (p *parser) parseNodes(open *openConditional) ([]Node, *entities.ExpansionError) {
	var nodes []Node

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		if tok.kind == tokenText {
			nodes = append(nodes, LiteralNode{Text: tok.text})
			continue
		}

		keyword, rest, _ := strings.Cut(tok.text, " ")
		switch keyword {
		case "IF", "UNLESS":
			node, err := p.parseConditional(tok, keyword, rest)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)

		case "ENDIF", "ENDUNLESS":
			flag := strings.TrimSpace(rest)
			if open == nil {
				return nil, p.malformed(tok.pos, fmt.Sprintf("{{%s %s}} without a matching opener", keyword, flag))
			}
			if keyword != open.closer || flag != open.flag {
				return nil, p.malformed(tok.pos, fmt.Sprintf(
					"conditional opened as {{%s %s}} but closed as {{%s %s}}",
					openerKeyword(open.closer), open.flag, keyword, flag))
			}
			return nodes, nil

		case "PHASE":
			label, target, ok := strings.Cut(rest, ":")
			label, target = strings.TrimSpace(label), strings.TrimSpace(target)
			if !ok || label == "" || target == "" {
				// Not directive syntax we recognize; prose keeps its text.
				nodes = append(nodes, LiteralNode{Text: tok.raw})
				continue
			}
			nodes = append(nodes, PhaseNode{Label: label, Path: target, Pos: tok.pos})

		default:
			nodes = append(nodes, p.leafNode(tok))
		}
	}

	if open != nil {
		return nil, p.malformed(open.pos, fmt.Sprintf(
			"{{%s %s}} is never closed with {{%s %s}}",
			openerKeyword(open.closer), open.flag, open.closer, open.flag))
	}
	return nodes, nil
}

func (p *parser) parseConditional(tok token, keyword, rest string) (Node, *entities.ExpansionError) {
	flag := strings.TrimSpace(rest)
	if !identPattern.MatchString(flag) {
		return nil, p.malformed(tok.pos, fmt.Sprintf("{{%s}} requires a flag name, got %q", keyword, flag))
	}

	closer := "ENDIF"
	negate := false
	if keyword == "UNLESS" {
		closer = "ENDUNLESS"
		negate = true
	}

	body, err := p.parseNodes(&openConditional{closer: closer, flag: flag, pos: tok.pos})
	if err != nil {
		return nil, err
	}
	return ConditionalNode{Flag: flag, Negate: negate, Body: body, Pos: tok.pos}, nil
}

// leafNode classifies a non-conditional directive. Patterns with a glob
// become wildcards, paths become includes, identifiers become variables,
// and anything else survives as the literal marker text.
func (p *parser) leafNode(tok token) Node {
	switch {
	case strings.ContainsAny(tok.text, " \t"):
		return LiteralNode{Text: tok.raw}
	case strings.Contains(tok.text, "*"):
		return WildcardNode{Pattern: tok.text, Pos: tok.pos}
	case strings.Contains(tok.text, "/"):
		return IncludeNode{Path: tok.text, Pos: tok.pos}
	case identPattern.MatchString(tok.text):
		return VariableNode{Name: tok.text, Raw: tok.raw, Pos: tok.pos}
	default:
		return LiteralNode{Text: tok.raw}
	}
}

func (p *parser) malformed(pos entities.Position, message string) *entities.ExpansionError {
	return entities.NewExpansionError(entities.ErrMalformedConditional, p.path, pos, message)
}

func openerKeyword(closer string) string {
	if closer == "ENDUNLESS" {
		return "UNLESS"
	}
	return "IF"
}
