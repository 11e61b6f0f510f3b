package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/driver"
	"github.com/vovakirdan/tui-fighter/internal/feed"
	"github.com/vovakirdan/tui-fighter/internal/fight"
	"github.com/vovakirdan/tui-fighter/internal/match"
	"github.com/vovakirdan/tui-fighter/internal/replay"
	"github.com/vovakirdan/tui-fighter/internal/roster"
)

var (
	flagSimP1       string
	flagSimP2       string
	flagSrc1        string
	flagSrc2        string
	flagSimSeed     uint64
	flagMaxTicks    int
	flagWSAddr      string
	flagHeartbeat   int
	flagRealtime    bool
	flagSave        bool
	flagPrintEvents bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless match between input sources",
	Long: `Run a match where both sides are driven by built-in input sources.

Sources: ` + strings.Join(driver.Names(), ", ") + `

With --ws the match is paced at the tick rate and every frame is
streamed as JSON to websocket clients on /ws.

Examples:
  fighter sim --src1 random --src2 block
  fighter sim --p1 ken --src1 random --seed 42 --ticks 3600
  fighter sim --ws :8080`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimP1, "p1", "ryu", "Player 1 character")
	simCmd.Flags().StringVar(&flagSimP2, "p2", "ken", "Player 2 character")
	simCmd.Flags().StringVar(&flagSrc1, "src1", "random", "Player 1 input source")
	simCmd.Flags().StringVar(&flagSrc2, "src2", "random", "Player 2 input source")
	simCmd.Flags().Uint64Var(&flagSimSeed, "seed", 0, "Seed for random sources (0 = time based)")
	simCmd.Flags().IntVar(&flagMaxTicks, "ticks", 0, "Stop after this many ticks (0 = until the match ends)")
	simCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Stream frames over websocket on this address")
	simCmd.Flags().IntVar(&flagHeartbeat, "heartbeat", 60, "Ticks between state frames sent to websocket clients")
	simCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Pace the match at the tick rate")
	simCmd.Flags().BoolVar(&flagSave, "save", true, "Save the replay to the database")
	simCmd.Flags().BoolVar(&flagPrintEvents, "events", true, "Print every contact")
}

// printer writes contacts and round results to stdout.
type printer struct{}

func (printer) Publish(f driver.Frame) {
	for _, ev := range f.Events {
		fmt.Println(ev)
	}
	if r := f.RoundEnd; r != nil {
		fmt.Println(roundLine(*r))
	}
}

func roundLine(r match.RoundResult) string {
	who := "draw"
	if !r.Draw {
		who = r.Winner.String() + " wins"
	}
	line := fmt.Sprintf("round %d: %s by %s at tick %d", r.Round, who, r.Reason, r.Tick)
	if r.Perfect {
		line += " (perfect)"
	}
	return line
}

func runSim(*cobra.Command, []string) error {
	cfg, err := simConfig(config.PresetArcade)
	if err != nil {
		return err
	}
	seed := flagSimSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src1, err := driver.ParseSource(flagSrc1, seed)
	if err != nil {
		return err
	}
	src2, err := driver.ParseSource(flagSrc2, seed+1)
	if err != nil {
		return err
	}

	rec, err := newRecorder(cfg, flagSimP1, flagSimP2)
	if err != nil {
		return err
	}

	opts := driver.Options{
		MaxTicks: flagMaxTicks,
		Logger:   logger,
	}
	if flagPrintEvents {
		opts.Sinks = append(opts.Sinks, printer{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	realtime := flagRealtime
	if flagWSAddr != "" {
		hub := feed.NewHub(flagHeartbeat, logger)
		defer hub.Close()
		opts.Sinks = append(opts.Sinks, hub)

		srv, err := serveFeed(flagWSAddr, hub)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			//nolint:errcheck // Best-effort shutdown
			srv.Shutdown(shutdownCtx)
		}()
		realtime = true
	}

	logger.Info("match starting", "p1", flagSimP1, "src1", flagSrc1, "p2", flagSimP2, "src2", flagSrc2, "seed", seed)
	runner := driver.NewRunner(rec, src1, src2, opts)
	var res match.Result
	if realtime {
		res, err = runner.Run(ctx)
	} else {
		res, err = runner.RunHeadless(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	l := rec.Log()
	fmt.Println()
	fmt.Printf("Result: %s  (%d-%d, %d ticks)\n", resultLine(res, l), res.Wins[fight.P1], res.Wins[fight.P2], res.Ticks)

	if flagSave {
		saveReplay(l, res)
	}
	return nil
}

func newRecorder(cfg config.SimConfig, p1, p2 string) (*replay.Recorder, error) {
	a, err := roster.Load(p1)
	if err != nil {
		return nil, err
	}
	b, err := roster.Load(p2)
	if err != nil {
		return nil, err
	}
	sim, err := fight.NewSimulation(cfg, a, b)
	if err != nil {
		return nil, err
	}
	return replay.NewRecorder(match.New(sim), a.ID, b.ID), nil
}

func serveFeed(addr string, hub *feed.Hub) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return nil, fmt.Errorf("websocket feed: %w", err)
	case <-time.After(100 * time.Millisecond):
	}
	logger.Info("streaming frames", "url", "ws://"+addr+"/ws")
	return srv, nil
}

func resultLine(res match.Result, l *replay.Log) string {
	if res.Draw {
		return "draw"
	}
	if res.Winner == fight.P1 {
		return l.P1 + " wins"
	}
	return l.P2 + " wins"
}

func saveReplay(l *replay.Log, res match.Result) {
	if l.Ticks() == 0 {
		return
	}
	store, err := openStore()
	if err != nil {
		logger.Warn("replay not saved", "err", err)
		return
	}
	defer store.Close()

	id, err := store.SaveReplay(l, replay.Summarize(l, res))
	if err != nil {
		logger.Warn("replay not saved", "err", err)
		return
	}
	fmt.Printf("Saved replay %d. Run 'fighter replay %d --verify' to check it.\n", id, id)
}
