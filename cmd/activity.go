package cmd

import (
	"github.com/inovacc/collectr/internal/core"
	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:   "activity [path]",
	Short: "Analyze commit activity for a local repository",
	Long: `Activity detects the repository at a local path, gathers commit and
contributor statistics from its history, and persists the result as a
compressed snapshot.

Examples:
  collectr activity              # Analyze the repository in the current directory
  collectr activity ./some/repo  # Analyze a specific checkout`,
	Args: cobra.MaximumNArgs(1),
	RunE: runActivity,
}

func init() {
	rootCmd.AddCommand(activityCmd)
	addCommonFlags(activityCmd.Flags())
}

func runActivity(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	token, _ := cmd.Flags().GetString("token")
	remote, _ := cmd.Flags().GetString("remote")

	deps, cfg, cleanup := buildDeps(token)
	defer cleanup()

	if remote == "" {
		remote = cfg.Remote
	}

	rep := core.ActivityPipeline(deps, path, remote).Run(cmd.Context())

	return emit(rep)
}
