package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dkoosis/taskcenter/pkg/manifest"
)

func newListCommand(s *session) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the project's tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks := s.center.ResolveTasks(cmd.Context())
			if asJSON {
				return printTaskJSON(cmd.OutOrStdout(), tasks)
			}
			return printTaskTable(cmd.OutOrStdout(), tasks)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print tasks as JSON")
	return cmd
}

// taskJSON is the list --json record.
type taskJSON struct {
	manifest.Task
	Source string `json:"source"`
}

func printTaskJSON(w io.Writer, tasks []manifest.Task) error {
	out := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		out[i] = taskJSON{Task: t, Source: t.Source.String()}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printTaskTable(w io.Writer, tasks []manifest.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks were found. Add scripts or update tasks.json.")
		return err
	}

	nameWidth := runewidth.StringWidth("NAME")
	for _, t := range tasks {
		nameWidth = max(nameWidth, runewidth.StringWidth(t.Name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %-10s  %s\n", runewidth.FillRight("NAME", nameWidth), "SOURCE", "DESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(&b, "%s  %-10s  %s\n", runewidth.FillRight(t.Name, nameWidth), t.Source, t.Description)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
