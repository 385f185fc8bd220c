package dashboard

import (
	"context"
	"fmt"
	"io"

	"github.com/dkoosis/taskcenter/pkg/command"
	"github.com/dkoosis/taskcenter/pkg/manifest"
	"github.com/dkoosis/taskcenter/pkg/supervisor"
	"github.com/dkoosis/taskcenter/taskcenter"
)

// RunNonTTY runs one task and streams its output as plain lines for
// non-interactive environments. It returns the task's exit code, or 1 when
// the task could not be started.
func RunNonTTY(ctx context.Context, runner Runner, task manifest.Task, out io.Writer) int {
	inv, err := command.Build(task)
	if err != nil {
		fmt.Fprintf(out, msgStartFailed+"\n", err)
		return 1
	}

	fmt.Fprintf(out, "=== %s ===\n", task.Name)
	fmt.Fprintf(out, "Working directory: %s\n", task.Dir)
	fmt.Fprintf(out, "Command: %s\n\n", inv)

	events, err := runner.RunTask(ctx, task)
	if err != nil {
		fmt.Fprintf(out, msgStartFailed+"\n", err)
		return 1
	}

	code := 1
	for ev := range events {
		switch ev.Kind {
		case supervisor.EventLine:
			fmt.Fprintln(out, ev.Line)
		case supervisor.EventExit:
			code = ev.ExitCode
			if ev.Err != nil {
				fmt.Fprintf(out, msgStartFailed+"\n", ev.Err)
				continue
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, taskcenter.CompletionMessage(task.Name, ev.ExitCode))
		}
	}
	return code
}
