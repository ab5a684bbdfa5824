package runtime

import "fmt"

var (
	// Version is the semantic version (set via -ldflags)
	Version = "0.0.0-dev"

	// GitCommit is the short git commit hash (set via -ldflags)
	GitCommit = "dev"

	// BuildTime is the UTC build timestamp (set via -ldflags)
	BuildTime = "unknown"
)

// Name is the command name used in banners and generated file headers.
const Name = "trap-docs"

// VersionString returns the formatted version string for display.
func VersionString() string {
	return fmt.Sprintf("%s version %s (%s) built %s", Name, Version, GitCommit, BuildTime)
}

// Banner returns the short tool identifier written into generated files.
func Banner() string {
	return Name + " " + Version
}
