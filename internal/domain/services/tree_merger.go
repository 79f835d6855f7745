package services

import (
	"github.com/agentos-dev/agentos/internal/domain/entities"
)

// TreeMerger folds a resolved chain into one logical file tree.
//
// Merge Semantics:
//   - Iteration is root→leaf; for a shared path the leaf always wins.
//   - A file is skipped iff a strictly more specific profile excludes its
//     path. The excluding profile's own definition at that path (and any
//     descendant's) still lands.
//   - Reserved names (_index.md, _toc.md) follow the same rules; there is
//     no special-cased merge behavior for them.
//   - Output depends only on the chain and exclusion table. Per-profile
//     paths are visited in sorted order and nothing reads the clock or
//     filesystem, so the same chain always yields the same tree.
type TreeMerger struct{}

// NewTreeMerger creates a new tree merger service.
func NewTreeMerger() *TreeMerger {
	return &TreeMerger{}
}

// Merge produces the effective tree for the chain: exactly one
// TemplateFile per relative path, tagged with the winning profile's id.
func (m *TreeMerger) Merge(chain *entities.ResolvedChain) *entities.MergedTree {
	tree := entities.NewMergedTree()
	for idx, profile := range chain.Profiles {
		for _, relPath := range profile.SortedPaths() {
			if chain.Excluded(relPath, idx) {
				continue
			}
			tree.Set(entities.TemplateFile{
				Path:      relPath,
				Content:   profile.Files[relPath],
				ProfileID: profile.ID,
			})
		}
	}
	return tree
}
