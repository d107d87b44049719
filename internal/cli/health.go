package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkab-io/arkab/internal/config"
	"github.com/arkab-io/arkab/internal/health"
)

var healthConfig string

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().StringVar(&healthConfig, "config", "", "Path to config YAML")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Sample local host health once and print the report",
	Long:  "Samples CPU, memory, and disk usage on this host, classifies each\nagainst the configured thresholds, and prints the report as JSON.",
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(healthConfig)
	if err != nil {
		return err
	}

	monitor := health.NewMonitor(health.NewHostSampler(), health.Thresholds{
		CPU:    cfg.Health.CPUThreshold,
		Memory: cfg.Health.MemoryThreshold,
		Disk:   cfg.Health.DiskThreshold,
	}, cfg.Health.SampleTimeout)

	report := monitor.Report(context.Background())
	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
	return nil
}
