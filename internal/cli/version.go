package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dkoosis/taskcenter/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), version.Info())
			return err
		},
	}
}
