package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-fighter/internal/fight"
	"github.com/vovakirdan/tui-fighter/internal/replay"
	"github.com/vovakirdan/tui-fighter/internal/roster"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

var (
	flagListLimit    int
	flagVerify       bool
	flagReplayEvents bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List saved replays",
	Long: `Display the most recent saved replays.

Examples:
  fighter replays
  fighter replays --limit 50`,
	Args: cobra.NoArgs,
	RunE: runReplays,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-simulate a saved replay",
	Long: `Rebuild a saved match from its inputs and print what happened.

With --verify the replay is simulated twice and both runs must reach the
recorded state hash.

Examples:
  fighter replay 3
  fighter replay 3 --verify
  fighter replay export 3 match.yaml
  fighter replay import match.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var replayExportCmd = &cobra.Command{
	Use:   "export <id> <file>",
	Short: "Write a saved replay to a YAML file",
	Args:  cobra.ExactArgs(2),
	RunE:  runReplayExport,
}

var replayImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Verify a replay YAML file and save it to the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplayImport,
}

var replayDeleteCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a saved replay",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplayDelete,
}

func init() {
	replaysCmd.Flags().IntVar(&flagListLimit, "limit", 20, "Number of replays to show")
	replayCmd.Flags().BoolVar(&flagVerify, "verify", false, "Simulate twice and compare state hashes")
	replayCmd.Flags().BoolVar(&flagReplayEvents, "events", true, "Print every contact")

	replayCmd.AddCommand(replayExportCmd)
	replayCmd.AddCommand(replayImportCmd)
	replayCmd.AddCommand(replayDeleteCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid replay id %q", s)
	}
	return id, nil
}

func loadReplay(arg string) (*replay.Log, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	l, err := store.LoadReplay(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no replay with id %d; run 'fighter replays' to list them", id)
	}
	return l, err
}

func runReplays(*cobra.Command, []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.ListReplays(flagListLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Run 'fighter sim' or 'fighter train' to record one.")
		return nil
	}

	fmt.Printf("  %-5s  %-10s  %-10s  %-10s  %6s  %7s  %s\n", "ID", "P1", "P2", "Winner", "Rounds", "Ticks", "Date")
	fmt.Printf("  %-5s  %-10s  %-10s  %-10s  %6s  %7s  %s\n", "--", "--", "--", "------", "------", "-----", "----")
	for _, e := range entries {
		winner := e.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Printf("  %-5d  %-10s  %-10s  %-10s  %6d  %7d  %s\n",
			e.ID, e.P1, e.P2, winner, e.Rounds, e.Ticks, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runReplay(_ *cobra.Command, args []string) error {
	l, err := loadReplay(args[0])
	if err != nil {
		return err
	}

	play := replay.Play
	if flagVerify {
		play = replay.Verify
	}
	pb, err := play(l, roster.Load)
	if err != nil {
		return err
	}

	if flagReplayEvents {
		for _, ev := range pb.Events {
			fmt.Println(ev)
		}
		for _, r := range pb.Rounds {
			fmt.Println(roundLine(r))
		}
		fmt.Println()
	}
	res := pb.Result
	fmt.Printf("%s vs %s: %s  (%d-%d, %d ticks)\n",
		l.P1, l.P2, resultLine(res, l), res.Wins[fight.P1], res.Wins[fight.P2], l.Ticks())

	if flagVerify {
		again, err := replay.Verify(l, roster.Load)
		if err != nil {
			return err
		}
		if len(again.Events) != len(pb.Events) {
			return fmt.Errorf("%w: %d events on the first run, %d on the second", replay.ErrDesync, len(pb.Events), len(again.Events))
		}
		fmt.Printf("Verified: both runs reached state %016x\n", again.Hash)
	}
	return nil
}

func runReplayExport(_ *cobra.Command, args []string) error {
	l, err := loadReplay(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := replay.Export(f, l); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d ticks to %s\n", l.Ticks(), args[1])
	return nil
}

func runReplayImport(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	l, err := replay.Import(f)
	if err != nil {
		return err
	}
	pb, err := replay.Verify(l, roster.Load)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveReplay(l, replay.Summarize(l, pb.Result))
	if err != nil {
		return err
	}
	fmt.Printf("Imported replay %d (%s vs %s, %d ticks)\n", id, l.P1, l.P2, l.Ticks())
	return nil
}

func runReplayDelete(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteReplay(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no replay with id %d", id)
		}
		return err
	}
	fmt.Printf("Deleted replay %d\n", id)
	return nil
}
