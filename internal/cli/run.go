package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkoosis/taskcenter/pkg/dashboard"
	"github.com/dkoosis/taskcenter/taskcenter"
)

func newRunCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "run NAME",
		Short: "Run one task and stream its output",
		Long: `Run one task by name (case-insensitive) and stream its output.
The command exits with the task's exit code. Interrupting taskcenter
stops the task and its child processes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			tasks := s.center.ResolveTasks(cmd.Context())
			task, ok := taskcenter.FindTask(tasks, name)
			if !ok {
				return fmt.Errorf("no task named %q (see 'taskcenter list')", name)
			}
			return dashboard.RunHeadless(cmd.Context(), s.center, task, cmd.OutOrStdout())
		},
	}
}
