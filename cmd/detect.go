package cmd

import (
	"github.com/inovacc/collectr/internal/core"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [path]",
	Short: "Detect the repository at a local path",
	Long: `Detect reads the git remote configured at a local path, resolves it to
owner/repo coordinates, and enriches the result with repository metadata
from the GitHub API.

Examples:
  collectr detect                # Detect the repository in the current directory
  collectr detect ./some/repo    # Detect a specific checkout
  collectr detect --remote fork  # Inspect a remote other than origin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	addCommonFlags(detectCmd.Flags())
}

func runDetect(cmd *cobra.Command, args []string) error {
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

	rep := core.DetectPipeline(deps, path, remote).Run(cmd.Context())

	return emit(rep)
}
