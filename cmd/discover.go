package cmd

import (
	"github.com/inovacc/collectr/internal/core"
	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [owner]",
	Short: "Discover the GitHub projects belonging to an owner",
	Long: `Discover lists the repositories belonging to a user or organization and
persists the listing as a compressed snapshot. Without an owner argument the
authenticated user's repositories are listed, which requires a token.

Examples:
  collectr discover             # Projects of the authenticated user
  collectr discover acme        # Projects of the acme user or organization
  collectr discover --token t   # Explicit token`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	addCommonFlags(discoverCmd.Flags())
}

func runDiscover(cmd *cobra.Command, args []string) error {
	owner := ""
	if len(args) > 0 {
		owner = args[0]
	}

	token, _ := cmd.Flags().GetString("token")

	deps, _, cleanup := buildDeps(token)
	defer cleanup()

	rep := core.DiscoverPipeline(deps, owner).Run(cmd.Context())

	return emit(rep)
}
