package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkab-io/arkab/internal/archive"
)

var decisionsLimit int

func init() {
	rootCmd.AddCommand(decisionsCmd)
	decisionsCmd.Flags().IntVarP(&decisionsLimit, "limit", "n", 20, "Number of recent decisions to show")
}

var decisionsCmd = &cobra.Command{
	Use:   "decisions <archive.db>",
	Short: "Show recent decisions from the archive",
	Long:  "Reads the SQLite decision archive and prints the most recent decisions,\nnewest first.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecisions,
}

func runDecisions(cmd *cobra.Command, args []string) error {
	arch, err := archive.Open(args[0])
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer arch.Close()

	decisions, err := arch.Recent(decisionsLimit)
	if err != nil {
		return fmt.Errorf("query archive: %w", err)
	}

	out, _ := json.MarshalIndent(decisions, "", "  ")
	fmt.Println(string(out))
	return nil
}
