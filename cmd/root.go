package cmd

import (
	"os"

	"github.com/google/uuid"
	"github.com/inovacc/collectr/internal/application"
	"github.com/spf13/cobra"
)

// debugLogPath is set once per process and surfaced in every report.
var debugLogPath string

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Collect repository data for automated agents",
	Long: `Collectr runs multi-phase data-collection pipelines against local git
repositories and the GitHub API, and prints one deterministic, line-oriented
report to stdout. The output is designed for automated text-processing
agents: a success block carries the collected data and follow-up
instructions, a failure block carries an explicit stop directive and
mandatory recovery steps.

The process exits 0 when collection succeeded and 1 otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debugLogPath = application.SetupDebugLog(uuid.New().String())
	},
}

// Execute runs the root command. The serialized report is the only stdout
// output; a failed pipeline surfaces as exit status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
