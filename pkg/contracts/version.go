package contracts

import (
	"fmt"
	"runtime"
)

// Version is the current version of the application
const Version = "0.1.0"

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// VersionString returns the full version string including build metadata.
func VersionString() string {
	return fmt.Sprintf("datalens %s (commit %s, built %s, %s)",
		Version, GitCommit, BuildTime, runtime.Version())
}
