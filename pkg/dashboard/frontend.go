package dashboard

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dkoosis/taskcenter/pkg/manifest"
)

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ExitCodeError reports a task that finished with a non-zero exit code.
// Use errors.As to extract the code.
type ExitCodeError struct {
	Task string
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("task %q exited with code %d", e.Task, e.Code)
}

// RunHeadless is RunNonTTY with the exit code folded into the error.
func RunHeadless(ctx context.Context, runner Runner, task manifest.Task, w io.Writer) error {
	if code := RunNonTTY(ctx, runner, task, w); code != 0 {
		return &ExitCodeError{Task: task.Name, Code: code}
	}
	return nil
}
