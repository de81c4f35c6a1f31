// Package buildinfo reports the scenarist version. Release builds set the
// variables with -ldflags -X; other builds fall back to the VCS stamp Go
// embeds in the binary.
package buildinfo

// These variables are set at build time via -ldflags -X.
var (
	// Version is the semantic version or git describe output.
	Version = "dev"

	// Commit is the short git commit SHA.
	Commit = "unknown"

	// Date is the UTC build timestamp in RFC3339 format.
	Date = "unknown"
)
