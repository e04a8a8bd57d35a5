// Package version holds build information stamped in at release time.
package version

// Set by goreleaser with -ldflags "-X github.com/arthur-debert/texmerge/internal/version.Version={{.Version}}"
// and likewise for Commit and Date.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
