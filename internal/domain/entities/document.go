package entities

// OutputRoot is the directory the compiled tree mirrors into; a compiled
// "agents/x.md" lands at "agent-os/agents/x.md" for the installer to copy.
const OutputRoot = "agent-os"

// CompiledDocument is the fully expanded, directive-free artifact derived
// from one template entrypoint.
type CompiledDocument struct {
	// SourcePath is the entrypoint's path in the merged tree.
	SourcePath string

	// OutputPath is SourcePath under OutputRoot.
	OutputPath string

	Content []byte

	// ConsumedFlags lists the config flags this document's expansion
	// consulted (conditional guards and lazy workflow routing), in
	// first-use order, deduplicated.
	ConsumedFlags []string

	// ResolvedIncludes lists every merged-tree path spliced or pointed to
	// during expansion, in emission order, for diagnostics.
	ResolvedIncludes []string
}
