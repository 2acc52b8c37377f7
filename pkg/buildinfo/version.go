// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/lov3b/irc-render/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/lov3b/irc-render/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/lov3b/irc-render/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Name is the program name used in the user agent and PDF creator field.
const Name = "irc-render"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent is sent with image downloads, e.g. "irc-render/v1.2.3".
func UserAgent() string {
	return Name + "/" + Version
}

// Creator is written into the PDF creator field.
func Creator() string {
	return Name + " " + Version
}
