// Package services contains domain services for profile compilation.
package services

import (
	"fmt"
	"path"
	"strings"

	"github.com/agentos-dev/agentos/internal/domain/entities"
)

// MaxChainDepth caps inheritance chain length. The visited set already
// catches true cycles; the cap is a secondary guard so malformed
// repositories can never walk unbounded.
const MaxChainDepth = 10

// ChainResolver builds the root-first ancestor chain for a leaf profile
// and the effective exclusion table used during merging.
//
// # Cycle Detection Note
//
// This resolver detects cycles in PROFILE INHERITANCE (inherits_from).
// Cycles in template inclusion ({{...}} directives) are a separate
// concern handled by the expander at compile time.
type ChainResolver struct{}

// NewChainResolver creates a new chain resolver service.
func NewChainResolver() *ChainResolver {
	return &ChainResolver{}
}

// Resolve walks parent pointers from leafID toward the root and returns
// the chain ordered root first. It fails with CyclicInheritance when a
// profile id repeats on the walk, MissingProfile when a parent id is not
// in the repository, and InvalidExclusionPath when an exclusion entry is
// not a clean namespace-relative path.
func (r *ChainResolver) Resolve(leafID string, repo *entities.ProfileRepository) (*entities.ResolvedChain, error) {
	visited := make(map[string]bool)
	var leafFirst []*entities.Profile

	id := leafID
	for id != "" {
		if visited[id] {
			return nil, entities.NewConfigError(
				entities.ErrCyclicInheritance, id, "",
				fmt.Sprintf("inheritance cycle: %s", cycleString(leafFirst, id)),
			)
		}
		if len(leafFirst) >= MaxChainDepth {
			return nil, entities.NewConfigError(
				entities.ErrCyclicInheritance, id, "",
				fmt.Sprintf("inheritance chain deeper than %d profiles", MaxChainDepth),
			)
		}

		profile, ok := repo.Get(id)
		if !ok {
			msg := "profile not found in repository"
			if len(leafFirst) > 0 {
				msg = fmt.Sprintf("parent of %s not found in repository", leafFirst[len(leafFirst)-1].ID)
			}
			return nil, entities.NewConfigError(entities.ErrMissingProfile, id, "", msg)
		}

		visited[id] = true
		leafFirst = append(leafFirst, profile)
		id = profile.Parent
	}

	chain := &entities.ResolvedChain{
		Profiles:      make([]*entities.Profile, len(leafFirst)),
		ExcluderIndex: make(map[string]int),
	}
	for i, p := range leafFirst {
		chain.Profiles[len(leafFirst)-1-i] = p
	}

	// Build the effective exclusion table: for each excluded path, the
	// highest chain index claiming it. Exclusions only strike paths owned
	// by strict ancestors, so the index comparison in the merger leaves
	// the excluder's own definition (and any descendant's) untouched.
	for idx, profile := range chain.Profiles {
		for _, excluded := range profile.ExcludedInherited {
			if err := validateExclusionPath(profile.ID, excluded); err != nil {
				return nil, err
			}
			if current, ok := chain.ExcluderIndex[excluded]; !ok || idx > current {
				chain.ExcluderIndex[excluded] = idx
			}
		}
	}

	return chain, nil
}

// validateExclusionPath rejects exclusion entries that could never name
// an inherited file: absolute paths, paths escaping the profile tree, and
// paths outside the known namespaces.
func validateExclusionPath(profileID, relPath string) error {
	switch {
	case relPath == "":
		return entities.NewConfigError(entities.ErrInvalidExclusion, profileID, relPath,
			"exclusion path is empty")
	case strings.HasPrefix(relPath, "/"):
		return entities.NewConfigError(entities.ErrInvalidExclusion, profileID, relPath,
			"exclusion path must be relative")
	case path.Clean(relPath) != relPath || relPath == ".." || strings.HasPrefix(relPath, "../"):
		return entities.NewConfigError(entities.ErrInvalidExclusion, profileID, relPath,
			"exclusion path must be a clean relative path")
	case !entities.IsKnownNamespace(relPath):
		return entities.NewConfigError(entities.ErrInvalidExclusion, profileID, relPath,
			"exclusion path must be under agents/, commands/, workflows/ or standards/")
	}
	return nil
}

// cycleString renders the walked ids plus the repeated one, leaf first,
// for the CyclicInheritance message.
func cycleString(walked []*entities.Profile, repeat string) string {
	ids := make([]string, 0, len(walked)+1)
	for _, p := range walked {
		ids = append(ids, p.ID)
	}
	ids = append(ids, repeat)
	return strings.Join(ids, " -> ")
}
