// Package version carries build metadata for the command-line tools. The
// values are overridden at link time:
//
//	go build -ldflags "-X github.com/banshee-data/entityspace/internal/version.Version=v0.3.0"
package version

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)
