package engine

import (
	"strings"

	"github.com/agentos-dev/agentos/internal/domain/entities"
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenDirective
)

// token is one lexed element: a run of literal text, or the trimmed
// interior of a {{...}} marker with the marker's source position.
type token struct {
	kind tokenKind
	text string // trimmed directive interior, or the literal text run
	raw  string // the full {{...}} marker, for permissive fallback
	pos  entities.Position
}

// lex splits raw template content into a flat stream of text and
// directive tokens. An opening {{ with no closing }} is not a directive;
// it stays literal text, matching the permissive treatment of stray
// template syntax in prompt prose.
func lex(content string) []token {
	var tokens []token
	line, col := 1, 1

	advance := func(s string) {
		for _, r := range s {
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
	}

	rest := content
	for len(rest) > 0 {
		open := strings.Index(rest, "{{")
		if open < 0 {
			tokens = append(tokens, token{kind: tokenText, text: rest})
			break
		}

		closing := strings.Index(rest[open+2:], "}}")
		if closing < 0 {
			tokens = append(tokens, token{kind: tokenText, text: rest})
			break
		}

		if open > 0 {
			tokens = append(tokens, token{kind: tokenText, text: rest[:open]})
		}
		advance(rest[:open])

		inner := rest[open+2 : open+2+closing]
		tokens = append(tokens, token{
			kind: tokenDirective,
			text: strings.TrimSpace(inner),
			raw:  rest[open : open+2+closing+2],
			pos:  entities.Position{Line: line, Column: col},
		})

		advance(rest[open : open+2+closing+2])
		rest = rest[open+2+closing+2:]
	}

	return tokens
}
