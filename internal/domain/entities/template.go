package entities

import "sort"

// TemplateFile is a single file in a merged tree, with provenance back to
// the profile that contributed it.
type TemplateFile struct {
	Path      string // namespace-relative, e.g. "workflows/implementation/implement-tasks.md"
	Content   []byte
	ProfileID string // owning profile (the merge winner)
}

// MergedTree is the single effective file tree for a resolved chain:
// exactly one TemplateFile per relative path.
type MergedTree struct {
	files map[string]TemplateFile
}

// NewMergedTree returns an empty tree.
func NewMergedTree() *MergedTree {
	return &MergedTree{files: make(map[string]TemplateFile)}
}

// Set stores or overwrites the winner for a path.
func (t *MergedTree) Set(file TemplateFile) {
	t.files[file.Path] = file
}

// Get returns the file at relPath, if present.
func (t *MergedTree) Get(relPath string) (TemplateFile, bool) {
	f, ok := t.files[relPath]
	return f, ok
}

// Len returns the number of files in the tree.
func (t *MergedTree) Len() int {
	return len(t.files)
}

// Paths returns every path in lexicographic order. All enumeration over
// the tree (entrypoints, wildcard matching) goes through this so output
// ordering never depends on map iteration.
func (t *MergedTree) Paths() []string {
	paths := make([]string, 0, len(t.files))
	for path := range t.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
