package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/driver"
	"github.com/vovakirdan/tui-fighter/internal/platform/tui"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

var (
	flagTrainP1   string
	flagTrainP2   string
	flagDummy     string
	flagFPS       int
	flagTrainSeed int64
	flagNoSave    bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Training mode against a dummy",
	Long: `Control player 1 from the keyboard against a dummy player 2.

Controls:
  A/D or arrows - walk back/forward (screen relative)
  W/S           - up/crouch
  U I O         - light/medium/heavy punch
  J K L         - light/medium/heavy kick
  1             - toggle hitbox overlay
  2             - toggle input history
  Tab           - next dummy
  P / .         - pause / step one tick
  R             - reset
  Ctrl+S        - screenshot to ~/.fighter/screenshots
  Q/Ctrl+C      - quit

Dummies: ` + strings.Join(driver.Names(), ", ") + `

Examples:
  fighter train
  fighter train --p1 ken --p2 ryu --dummy parry-low`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&flagTrainP1, "p1", "ryu", "Your character")
	trainCmd.Flags().StringVar(&flagTrainP2, "p2", "ken", "Dummy character")
	trainCmd.Flags().StringVar(&flagDummy, "dummy", "stand", "Initial dummy behaviour")
	trainCmd.Flags().IntVar(&flagFPS, "fps", 60, "Tick rate (ticks per second)")
	trainCmd.Flags().Int64Var(&flagTrainSeed, "seed", 0, "Seed for the random dummy (0 = time based)")
	trainCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not save the session replay")
}

func runTrain(*cobra.Command, []string) error {
	cfg, err := simConfig(config.PresetTraining)
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	var store *storage.Store
	if !flagNoSave {
		if store, err = openStore(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v; the session will not be saved\n", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	// Logging to stderr would tear the alternate screen.
	trainLogger := logger
	if flagLogFile == "" {
		trainLogger = logger.WithPrefix("train")
		trainLogger.SetOutput(io.Discard)
	}

	return tui.Run(tui.Options{
		Sim:   cfg,
		P1:    flagTrainP1,
		P2:    flagTrainP2,
		Dummy: flagDummy,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagTrainSeed,
		},
		Store:  store,
		Logger: trainLogger,
	})
}
