package engine

import "strings"

// standardsPrefix marks the namespace subject to first-claim
// deduplication within a single document expansion.
const standardsPrefix = "standards/"

func isStandardsPath(relPath string) bool {
	return strings.HasPrefix(relPath, standardsPrefix)
}

// emittedSet tracks which standards files one document has already
// inlined. The first directive to reach a path claims it; later includes
// or broader/narrower wildcard matches in the same document contribute
// nothing for that path. Source order decides the winner, which keeps
// the output reproducible.
type emittedSet map[string]bool

// claim reports whether the path was free and marks it emitted.
func (s emittedSet) claim(path string) bool {
	if s[path] {
		return false
	}
	s[path] = true
	return true
}
