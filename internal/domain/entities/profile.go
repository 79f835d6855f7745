// Package entities contains the domain model for profile compilation.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"sort"
	"strings"
)

// Namespaces are the four subtrees a profile may contribute files to.
// Paths outside these never enter a merged tree.
var Namespaces = []string{"agents", "commands", "workflows", "standards"}

// IsKnownNamespace reports whether the first segment of a relative path
// is one of the profile namespaces.
func IsKnownNamespace(relPath string) bool {
	seg, _, _ := strings.Cut(relPath, "/")
	for _, ns := range Namespaces {
		if seg == ns {
			return true
		}
	}
	return false
}

// ProfileMetadata contains the descriptive fields of a profile config.
type ProfileMetadata struct {
	Name        string
	Description string
	Version     string
}

// Profile is a named, inheritable bundle of template files plus the
// inheritance directives from its profile-config.yml.
//
// Files maps namespace-relative paths (e.g. "standards/backend/api.md")
// to raw content. Parent is empty for a root profile (inherits_from: false).
type Profile struct {
	ID       string
	Metadata ProfileMetadata

	// Parent is the id of the profile this one inherits from, or "".
	Parent string

	// ExcludedInherited lists ancestor-owned paths this profile removes
	// from its effective tree. A profile cannot exclude its own files.
	ExcludedInherited []string

	Files map[string][]byte
}

// HasFile reports whether the profile itself defines relPath.
func (p *Profile) HasFile(relPath string) bool {
	_, ok := p.Files[relPath]
	return ok
}

// SortedPaths returns the profile's file paths in lexicographic order.
// Merge and enumeration never depend on map iteration order.
func (p *Profile) SortedPaths() []string {
	paths := make([]string, 0, len(p.Files))
	for path := range p.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ProfileRepository is an immutable set of profiles keyed by id. It is
// passed explicitly through resolution so the resolver stays a pure
// function over in-memory state, testable without a filesystem.
type ProfileRepository struct {
	profiles map[string]*Profile
}

// NewProfileRepository builds a repository from the given profiles.
// A repeated id fails with DuplicateProfileId.
func NewProfileRepository(profiles ...*Profile) (*ProfileRepository, error) {
	byID := make(map[string]*Profile, len(profiles))
	for _, p := range profiles {
		if _, exists := byID[p.ID]; exists {
			return nil, NewConfigError(ErrDuplicateProfileID, p.ID, "", "profile id defined more than once")
		}
		byID[p.ID] = p
	}
	return &ProfileRepository{profiles: byID}, nil
}

// Get returns the profile with the given id, if present.
func (r *ProfileRepository) Get(id string) (*Profile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// IDs returns all profile ids in lexicographic order.
func (r *ProfileRepository) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of profiles in the repository.
func (r *ProfileRepository) Len() int {
	return len(r.profiles)
}

// ResolvedChain is the root-first ancestor chain for a leaf profile,
// together with the effective exclusion table computed during resolution.
type ResolvedChain struct {
	// Profiles is ordered root first, leaf last.
	Profiles []*Profile

	// ExcluderIndex maps a relative path to the highest chain index of a
	// profile whose ExcludedInherited lists it. A file defined at chain
	// index i is dropped from the merge iff ExcluderIndex[path] > i:
	// exclusions only ever strike strictly-ancestor-owned paths, so the
	// excluding profile's own definition at the same path still wins.
	ExcluderIndex map[string]int
}

// Leaf returns the requested (most specific) profile of the chain.
func (c *ResolvedChain) Leaf() *Profile {
	return c.Profiles[len(c.Profiles)-1]
}

// Excluded reports whether a file owned by the profile at chain index
// ownerIdx is struck by a more specific profile's exclusion list.
func (c *ResolvedChain) Excluded(relPath string, ownerIdx int) bool {
	excluder, ok := c.ExcluderIndex[relPath]
	return ok && excluder > ownerIdx
}
