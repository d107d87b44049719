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
	"github.com/arkab-io/arkab/internal/server"
)

var (
	servePort   int
	serveConfig string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 8420, "HTTP listen port")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to config YAML")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP decision server",
	Long:  "Runs arkab as an HTTP JSON server.\nAccepts evidence batches, serves health and memory reports, and\nhot-reloads the config file on change.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, hash, err := config.LoadWithHash(serveConfig)
	if err != nil {
		return err
	}

	sys, err := core.New(cfg, hash, nil)
	if err != nil {
		return fmt.Errorf("failed to create system: %w", err)
	}
	defer sys.Close()

	srv := server.New(server.Config{Port: servePort, ConfigPath: serveConfig}, sys)

	// Hot-reload only makes sense when serving from a config file
	var reloader *server.Reloader
	if serveConfig != "" {
		reloader, err = server.NewReloader(srv, []string{serveConfig})
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if reloader != nil {
		go reloader.Run(ctx)
	}
	go sys.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down decision server...")
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "arkab decision server listening on :%d\n", servePort)
	if serveConfig != "" {
		fmt.Fprintf(os.Stderr, "Config: %s (hot-reload enabled)\n", serveConfig)
	}
	if cfg.AuditLog != "" {
		fmt.Fprintf(os.Stderr, "Audit log: %s\n", cfg.AuditLog)
	}
	fmt.Fprintln(os.Stderr)

	return srv.Start(ctx)
}
