package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/fab/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [deps...]",
		Short: "Build native dependencies that are out of date",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			jobs, _ := cmd.Flags().GetInt("jobs")

			return c.app.Build(cmd.Context(), args, app.BuildOptions{
				Force: force,
				Jobs:  jobs,
			})
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Rebuild even when outputs are up to date")
	cmd.Flags().IntP("jobs", "j", 0, "Maximum concurrent dependency builds (0 = one per CPU)")

	return cmd
}
