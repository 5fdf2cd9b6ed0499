// Package buildinfo carries the version stamped into xbar binaries.
//
// The variables are overridden at link time:
//
//	go build -ldflags "-X github.com/matzehuels/xbar/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/xbar/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/xbar/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/xbar
package buildinfo

import "fmt"

var (
	Version = "dev"     // Semantic version, e.g. "v0.3.0"
	Commit  = "none"    // Git commit
	Date    = "unknown" // Build timestamp (RFC 3339)
)

// Info is the build metadata in a serializable form, as reported by the
// HTTP health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String returns the build metadata as "xbar <version> (<commit>, <date>)".
func String() string {
	return fmt.Sprintf("xbar %s (%s, %s)", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt:  %s\n", Version, Commit, Date)
}
