package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arkab-io/arkab/internal/config"
	"github.com/arkab-io/arkab/internal/core"
	"github.com/arkab-io/arkab/internal/ingest"
)

var decideConfig string

func init() {
	rootCmd.AddCommand(decideCmd)
	decideCmd.Flags().StringVar(&decideConfig, "config", "", "Path to config YAML")
}

var decideCmd = &cobra.Command{
	Use:   "decide [file]",
	Short: "Classify an evidence batch from a file or stdin",
	Long:  "Reads a JSON evidence batch, runs it through the decision engine once,\nand prints the decisions. Use \"-\" or no argument to read stdin.\nExits 1 if the batch is rejected.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecide,
}

func runDecide(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read batch: %w", err)
	}

	evs, err := ingest.ParseBatch(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rejected: %v\n", err)
		os.Exit(1)
	}

	cfg, hash, err := config.LoadWithHash(decideConfig)
	if err != nil {
		return err
	}

	sys, err := core.New(cfg, hash, nil)
	if err != nil {
		return fmt.Errorf("failed to create system: %w", err)
	}
	defer sys.Close()

	decisions := sys.SubmitBatch(context.Background(), evs)

	out, _ := json.MarshalIndent(map[string]any{
		"decisions": decisions,
		"processed": len(decisions),
	}, "", "  ")
	fmt.Println(string(out))
	return nil
}
