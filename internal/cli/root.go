package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arkab",
	Short: "Security telemetry decision core",
	Long:  "Turns batches of security evidence into graduated response decisions,\nremembers them with time-based decay, and watches its own host health.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
