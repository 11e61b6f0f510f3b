package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeP1     string
	flagServeP2     string
	flagServeDummy  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the training SSH server",
	Long: `Start an SSH server where every connection gets its own training
session. Session replays are saved to the server's database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.fighter/host_key

Examples:
  fighter serve                           # Listen on :23234 with auto-generated key
  fighter serve --ssh :2222               # Listen on port 2222
  fighter serve --host-key ./my_host_key  # Use specific host key
  fighter serve --db ./replays.db         # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeP1, "p1", "ryu", "Character for connecting players")
	serveCmd.Flags().StringVar(&flagServeP2, "p2", "ken", "Dummy character")
	serveCmd.Flags().StringVar(&flagServeDummy, "dummy", "stand", "Initial dummy behaviour")
}

func runServe(*cobra.Command, []string) error {
	sim, err := simConfig(config.PresetTraining)
	if err != nil {
		return err
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Sim:         sim,
		P1:          flagServeP1,
		P2:          flagServeP2,
		Dummy:       flagServeDummy,
	}

	server, err := tui.NewSSHServer(cfg, logger.WithPrefix("fighter-ssh"))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting training SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
