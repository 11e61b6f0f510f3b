// fighter is a deterministic 2D fighting-game simulation with a terminal
// training mode.
//
// Usage:
//
//	fighter roster              - List characters
//	fighter moves <character>   - Print a character's frame data
//	fighter sim                 - Run a headless match between input sources
//	fighter replays             - List saved replays
//	fighter replay <id>         - Re-simulate a saved replay
//	fighter train               - Training mode against a dummy
//	fighter serve               - Start SSH server for remote training
//
// Global flags:
//
//	--config <path>   - Simulation config YAML
//	--preset <name>   - Rule preset: arcade, training, versus
//	--char <path>     - Extra character move table (repeatable)
//	--db <path>       - Replay database (default: ~/.fighter/replays.db)
//	--log-level <lvl> - debug, info, warn or error
//	--log-file <path> - Log to a rotated file instead of stderr
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/logging"
	"github.com/vovakirdan/tui-fighter/internal/roster"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagChars    []string
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string

	logger    *log.Logger
	logCloser io.Closer
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fighter",
	Short: "TUI Fighter - frame-accurate fighting game simulation",
	Long: `TUI Fighter runs a deterministic fixed-tick fighting game simulation:
move tables with frame data, hitboxes, blocking, parries, combos and
rounds, plus replays that reproduce a match exactly.

Available commands:
  roster   - Show all characters
  moves    - Print a character's frame data
  sim      - Run a headless match between input sources
  replays  - List saved replays
  replay   - Re-simulate, verify, export or import a replay
  train    - Training mode in the terminal
  serve    - Start SSH server for remote training

Examples:
  fighter roster
  fighter moves ryu
  fighter sim --src1 random --src2 block --seed 7
  fighter replay 3 --verify
  fighter train --p1 ken --dummy parry-high
  fighter serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			//nolint:errcheck // Nothing left to report to
			logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to simulation config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Rule preset: arcade, training, versus")
	rootCmd.PersistentFlags().StringSliceVar(&flagChars, "char", nil, "Extra character move table files")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.fighter/replays.db", "Path to replay database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to a rotated file")

	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(movesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(serveCmd)
}

func setup(*cobra.Command, []string) error {
	var err error
	logger, logCloser, err = logging.New(logging.Options{
		Prefix: "fighter",
		Level:  flagLogLevel,
		File:   flagLogFile,
	})
	if err != nil {
		return err
	}

	for _, path := range flagChars {
		info, err := roster.RegisterFile(path)
		if err != nil {
			return err
		}
		logger.Debug("registered character", "id", info.ID, "file", path)
	}
	return nil
}

// simConfig loads the simulation config and applies the preset flag, or
// fallback when the flag is empty.
func simConfig(fallback config.Preset) (config.SimConfig, error) {
	cfg, err := config.LoadSim(flagConfig)
	if err != nil {
		return cfg, err
	}
	preset := fallback
	if flagPreset != "" {
		if preset, err = config.ParsePreset(flagPreset); err != nil {
			return cfg, err
		}
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, cfg.Validate()
}

func openStore() (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening replay database: %w", err)
	}
	return store, nil
}
