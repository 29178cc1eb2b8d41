// Package version holds build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/lmittmann/w3docs/internal/version.Version=v0.3.0"
package version

import "fmt"

var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the build metadata for --version output.
func String() string {
	return fmt.Sprintf("w3docs %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
