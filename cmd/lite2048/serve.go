package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lite2048/internal/config"
	"github.com/vovakirdan/lite2048/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagServeTable  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lite2048 SSH server",
	Long: `Solve the configured board once and start an SSH server that lets users
connect and play it with the optimal move suggested every turn.

Every SSH connection gets its own game; the solved tables are shared.
Games are recorded per-server (all users share the same history).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.lite2048/host_key

Examples:
  lite2048 serve                           # Listen on :23234 with auto-generated key
  lite2048 serve --ssh :2222               # Listen on port 2222
  lite2048 serve --host-key ./my_host_key  # Use specific host key
  lite2048 serve --table tables/3x3.parquet

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "Idle timeout before disconnecting")
	serveCmd.Flags().StringVar(&flagServeTable, "table", "", "Load tables from a parquet file instead of solving")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fail("loading config", err)
	}
	logger := newLogger()

	if cmd.Flags().Changed("ssh") {
		cfg.Server.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	store := openStore(cfg.Storage.DBPath, logger)
	res, err := loadTable(ctx, flagServeTable, cfg, logger, store)
	stop()
	if store != nil {
		// The server opens its own handle.
		store.Close()
	}
	if err != nil {
		fail("preparing tables", err)
	}

	serverCfg := tui.DefaultSSHServerConfig()
	serverCfg.Address = cfg.Server.Address
	serverCfg.DBPath = cfg.Storage.DBPath
	serverCfg.Hints = cfg.Session.Hints
	if cfg.Server.HostKeyPath != "" {
		if serverCfg.HostKeyPath, err = config.ExpandHome(cfg.Server.HostKeyPath); err != nil {
			fail("resolving host key", err)
		}
	}
	if cfg.Server.IdleTimeout > 0 {
		serverCfg.IdleTimeout = cfg.Server.IdleTimeout
	}
	if cfg.Session.AutoplayFPS > 0 {
		serverCfg.AutoplayFPS = cfg.Session.AutoplayFPS
	}

	server, err := tui.NewSSHServer(serverCfg, res)
	if err != nil {
		fail("creating server", err)
	}

	fmt.Printf("Starting lite2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("running server", err)
	}
}
