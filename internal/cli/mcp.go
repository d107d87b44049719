package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arkab-io/arkab/internal/config"
	"github.com/arkab-io/arkab/internal/core"
	arkabmcp "github.com/arkab-io/arkab/internal/mcp"
)

var mcpConfig string

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpConfig, "config", "", "Path to config YAML")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long:  "Runs arkab as an MCP (Model Context Protocol) server over stdio.\nExposes the tools: submit, health, memory.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, hash, err := config.LoadWithHash(mcpConfig)
	if err != nil {
		return err
	}

	sys, err := core.New(cfg, hash, nil)
	if err != nil {
		return fmt.Errorf("failed to create system: %w", err)
	}
	defer sys.Close()

	srv := arkabmcp.New(sys)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sys.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "arkab MCP server running on stdio")
	fmt.Fprintln(os.Stderr)

	return srv.Run(ctx)
}
