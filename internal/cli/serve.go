package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/rightcount/internal/adapters/turso"
	"github.com/emiliopalmerini/rightcount/internal/config"
	"github.com/emiliopalmerini/rightcount/internal/migrate"
	"github.com/emiliopalmerini/rightcount/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the counting service",
	Long: `Start the counting service HTTP API.

The service stores one record per (day, workstation) pair and aggregates
across workstations on read. Writes require the shared secret when
RIGHTCOUNT_SECRET is set.

Examples:
  rightcount serve              # Listen on PORT (default 3003)
  rightcount serve --port 8080  # Listen on port 8080`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.Secret == "" {
		fmt.Fprintln(os.Stderr, "warning: RIGHTCOUNT_SECRET not set, writes are unauthenticated")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := turso.NewDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := migrate.RunAll(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	server := web.NewServer(cfg.Port, cfg.Secret, turso.NewDayCountRepository(db))
	return server.Start(ctx)
}
