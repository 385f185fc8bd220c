// Package version exposes build metadata stamped in by the linker.
package version

import (
	"fmt"
	"runtime"
)

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"     // Default value if not built with LDFLAGS
	CommitHash = "unknown" // Default value
	BuildDate  = "unknown" // Default value
)

// Info renders the build metadata for the version command.
func Info() string {
	return fmt.Sprintf("taskcenter version %s\nCommit: %s\nBuilt: %s\nGo: %s %s/%s\n",
		Version, CommitHash, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
