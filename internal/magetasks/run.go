package magetasks

import (
	"context"
	"fmt"

	"github.com/dkoosis/taskcenter/pkg/command"
	"github.com/dkoosis/taskcenter/pkg/manifest"
	"github.com/dkoosis/taskcenter/pkg/supervisor"
)

// Run executes name with args in ProjectRoot under label, streaming its
// output to Out. A tool that cannot be launched yields an error that
// IsCommandNotFound recognizes.
func Run(label, name string, args ...string) error {
	return RunContext(context.Background(), label, name, args...)
}

// RunContext is Run with a context that stops the tool when cancelled.
func RunContext(ctx context.Context, label, name string, args ...string) error {
	inv, err := command.Build(manifest.Task{
		Name:    label,
		Command: append([]string{name}, args...),
		Dir:     ProjectRoot,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(Out, "%s: %s\n", label, inv)
	events, err := supervisor.New().Start(ctx, inv)
	if err != nil {
		return err
	}

	var result error
	for ev := range events {
		switch ev.Kind {
		case supervisor.EventLine:
			fmt.Fprintln(Out, ev.Line)
		case supervisor.EventExit:
			switch {
			case ev.Err != nil:
				result = ev.Err
			case ev.ExitCode != 0:
				result = fmt.Errorf("%s exited with code %d", label, ev.ExitCode)
			}
		}
	}
	return result
}
