// Package build exposes compile-time build metadata.
package build

import "fmt"

// Set via -ldflags at release time; the defaults identify a dev build.
var (
	Version = "0.3.0"
	Commit  = "none"
	Date    = "unknown"
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the current build info.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Full renders the info for the version command.
func (i Info) Full() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}
