package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tiledrop/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagHTTPAddr    string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Tile Drop SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a mode picker menu.
Scores are stored per-server (all users share the same leaderboard).

With --http, every running game is also streamed to websocket spectators:
  GET /sessions          - live sessions
  GET /sessions/{id}     - one session and its latest board
  GET /sessions/{id}/ws  - websocket stream of board events

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tiledrop/host_key

Examples:
  tiledrop serve                           # Listen on :23234 with auto-generated key
  tiledrop serve --ssh :2222               # Listen on port 2222
  tiledrop serve --http :8080              # Also serve spectators
  tiledrop serve --host-key ./my_host_key  # Use specific host key
  tiledrop serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "Spectator HTTP address (disabled if empty)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    tickRate(),
		Difficulty:  string(preset),
		Logger:      logger,
	}

	var spectErr <-chan error
	if flagHTTPAddr != "" {
		hub, errc := startSpectators(ctx, flagHTTPAddr)
		cfg.Attach = attachFunc(hub)
		spectErr = errc
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Tile Drop SSH server on %s\n", cfg.Address)
	if flagHTTPAddr != "" {
		fmt.Printf("Spectators: http://%s/sessions\n", flagHTTPAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	// A failing spectator server stops the SSH server too.
	go func() {
		if spectErr == nil {
			return
		}
		select {
		case err := <-spectErr:
			if err != nil {
				logger.Error("spectator server failed", "error", err)
				stop()
			}
		case <-ctx.Done():
		}
	}()

	if err := server.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
