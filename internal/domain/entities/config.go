package entities

// Config carries the per-invocation compile settings. Profiles are
// read-only input defined before a run; Config is supplied with each run.
type Config struct {
	// Flags gates IF/UNLESS blocks and lazy workflow loading. A flag
	// referenced in a template but absent here reads as false; unknown
	// flags are deliberately not an error so templates keep working
	// across engine versions.
	Flags map[string]bool

	// Vars supplies scalar values for {{name}} variable directives.
	// An undefined variable leaves the directive text in place.
	Vars map[string]string
}

// Well-known flag names consumed by the stock templates.
const (
	FlagLazyLoadWorkflows   = "lazy_load_workflows"
	FlagClaudeCodeSubagents = "use_claude_code_subagents"
	FlagStandardsAsSkills   = "standards_as_claude_code_skills"
	FlagCompiledSingleCmd   = "compiled_single_command"
)

// Flag returns the flag's value, defaulting to false when absent.
func (c Config) Flag(name string) bool {
	return c.Flags[name]
}

// Var returns the variable's value and whether it is defined.
func (c Config) Var(name string) (string, bool) {
	v, ok := c.Vars[name]
	return v, ok
}

// LazyWorkflows reports whether workflow includes compile to pointer
// lines instead of inlined content.
func (c Config) LazyWorkflows() bool {
	return c.Flag(FlagLazyLoadWorkflows)
}
