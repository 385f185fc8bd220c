package manifest

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const (
	// PreferredInterpreter is the short-form launcher probed on the search path.
	PreferredInterpreter = "py"
	// FallbackInterpreter is used when the launcher is not available. Its
	// existence is not checked; a missing interpreter fails at launch.
	FallbackInterpreter = "python"

	// DefaultProbeTimeout bounds the interpreter lookup.
	DefaultProbeTimeout = 1500 * time.Millisecond
)

// lookupCommand returns the host's path-resolution utility.
func lookupCommand() string {
	if runtime.GOOS == "windows" {
		return "where"
	}
	return "which"
}

// ProbeInterpreter reports PreferredInterpreter when the host's lookup utility
// finds it within timeout, and FallbackInterpreter otherwise. Any error,
// non-zero exit or empty output counts as unavailable.
func ProbeInterpreter(ctx context.Context, timeout time.Duration) string {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, lookupCommand(), PreferredInterpreter).Output()
	if err != nil || strings.TrimSpace(string(out)) == "" {
		return FallbackInterpreter
	}
	return PreferredInterpreter
}
