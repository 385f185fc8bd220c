package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/dkoosis/taskcenter/pkg/dashboard"
)

// ExitCode maps a command error to the process exit code. A task's own
// non-zero exit is passed through silently; anything else is printed to w.
func ExitCode(err error, w io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *dashboard.ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}
