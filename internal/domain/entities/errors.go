package entities

import (
	"fmt"
	"strings"
)

// ConfigErrorKind classifies fatal pre-expansion failures. Any of these
// aborts the whole compile run: no meaningful merged tree can exist.
type ConfigErrorKind string

const (
	ErrCyclicInheritance  ConfigErrorKind = "cyclic_inheritance"
	ErrMissingProfile     ConfigErrorKind = "missing_profile"
	ErrInvalidExclusion   ConfigErrorKind = "invalid_exclusion_path"
	ErrDuplicateProfileID ConfigErrorKind = "duplicate_profile_id"
	ErrIncompatibleEngine ConfigErrorKind = "incompatible_engine"
)

// ConfigError indicates the profile repository or inheritance chain is
// unusable.
type ConfigError struct {
	Kind      ConfigErrorKind
	ProfileID string
	Path      string // offending relative path, when applicable
	Message   string
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("profile %s: %s: %s (%s)", e.ProfileID, e.Path, e.Message, e.Kind)
	}
	return fmt.Sprintf("profile %s: %s (%s)", e.ProfileID, e.Message, e.Kind)
}

// NewConfigError creates a new configuration error.
func NewConfigError(kind ConfigErrorKind, profileID, path, message string) *ConfigError {
	return &ConfigError{
		Kind:      kind,
		ProfileID: profileID,
		Path:      path,
		Message:   message,
	}
}

// ExpansionErrorKind classifies per-document failures. The orchestrator
// records these and continues the batch.
type ExpansionErrorKind string

const (
	ErrMalformedConditional     ExpansionErrorKind = "malformed_conditional"
	ErrUnresolvedInclude        ExpansionErrorKind = "unresolved_include"
	ErrCyclicInclude            ExpansionErrorKind = "cyclic_include"
	ErrMaxDepthExceeded         ExpansionErrorKind = "max_depth_exceeded"
	ErrUnknownWildcardNamespace ExpansionErrorKind = "unknown_wildcard_namespace"
)

// Position is a 1-based line/column of a directive in its source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ExpansionError indicates one document could not be expanded.
type ExpansionError struct {
	Kind      ExpansionErrorKind
	ProfileID string // owner of the file where the failure occurred
	Document  string // entrypoint being compiled
	Path      string // file containing the offending directive
	Pos       Position
	Message   string

	// IncludeStack names the inclusion path from the entrypoint to the
	// failure, for CyclicInclude and MaxDepthExceeded.
	IncludeStack []string
}

func (e *ExpansionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s: %s (%s)", e.Path, e.Pos, e.Message, e.Kind)
	if e.ProfileID != "" {
		fmt.Fprintf(&b, " [profile %s]", e.ProfileID)
	}
	if len(e.IncludeStack) > 0 {
		fmt.Fprintf(&b, " via %s", strings.Join(e.IncludeStack, " -> "))
	}
	return b.String()
}

// NewExpansionError creates a new expansion error.
func NewExpansionError(kind ExpansionErrorKind, path string, pos Position, message string) *ExpansionError {
	return &ExpansionError{
		Kind:    kind,
		Path:    path,
		Pos:     pos,
		Message: message,
	}
}
