// Package version carries build metadata stamped via -ldflags.
package version

import "fmt"

var (
	// Version is the release version.
	Version = "2.0.0"
	// Commit is the git commit hash.
	Commit = ""
)

// String renders the version for the info endpoint and the version command.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, short(Commit))
}

func short(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
