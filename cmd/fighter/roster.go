package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-fighter/internal/movedata"
	"github.com/vovakirdan/tui-fighter/internal/roster"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List all characters",
	Long:  `Shows the built-in characters and any loaded with --char.`,
	Run:   runRoster,
}

var flagMovesFile string

var movesCmd = &cobra.Command{
	Use:   "moves [character]",
	Short: "Print a character's frame data",
	Long: `Validate a move table and print its frame data.

Advantage columns assume the first active frame connects.

Examples:
  fighter moves ryu
  fighter moves --file ./characters/dan.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMoves,
}

var statsCmd = &cobra.Command{
	Use:   "stats <character>",
	Short: "Show a character's record from saved replays",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	movesCmd.Flags().StringVar(&flagMovesFile, "file", "", "Move table YAML to validate instead of a roster character")
}

func runRoster(*cobra.Command, []string) {
	chars := roster.List()

	if len(chars) == 0 {
		fmt.Println("No characters available.")
		return
	}

	fmt.Println("Characters:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, c := range chars {
		maxIDLen = max(maxIDLen, len(c.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Name")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "----")
	for _, c := range chars {
		fmt.Printf("  %-*s  %s\n", maxIDLen, c.ID, c.Name)
	}

	fmt.Println()
	fmt.Println("Run 'fighter moves <id>' to see frame data.")
}

func runMoves(_ *cobra.Command, args []string) error {
	var (
		c   *movedata.Character
		err error
	)
	switch {
	case flagMovesFile != "":
		c, err = movedata.LoadFile(flagMovesFile)
	case len(args) == 1:
		c, err = roster.Load(args[0])
	default:
		return errors.New("name a character or pass --file")
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)  health %d  walk %d/%d\n\n", c.Name, c.ID, c.Health, c.WalkForward, c.WalkBack)
	fmt.Printf("  %-12s %-8s %-16s %5s %5s %5s %5s %-8s %6s %6s %5s\n",
		"Move", "Kind", "Input", "Start", "Act", "Rec", "Dmg", "Guard", "OnHit", "OnBlk", "Meter")
	for i := range c.Moves {
		mv := &c.Moves[i]
		dmg, guard, onHit, onBlock := "-", "-", "-", "-"
		for _, b := range mv.Boxes {
			if b.Kind != movedata.BoxAttack && b.Kind != movedata.BoxThrow {
				continue
			}
			dmg = fmt.Sprint(b.Damage)
			if b.Kind == movedata.BoxAttack {
				guard = b.Guard.String()
				onHit = fmt.Sprintf("%+d", mv.Advantage(b.Frames.Start, b.Hitstun))
				onBlock = fmt.Sprintf("%+d", mv.Advantage(b.Frames.Start, b.Blockstun))
			}
			if b.Knockdown {
				onHit = "kd"
			}
			break
		}
		fmt.Printf("  %-12s %-8s %-16s %5d %5d %5d %5s %-8s %6s %6s %5d\n",
			mv.ID, mv.Kind, mv.Trigger.Notation, mv.Startup, mv.Active, mv.Recovery,
			dmg, guard, onHit, onBlock, mv.MeterCost)
	}
	return nil
}

func runStats(_ *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.GetCharacterStats(args[0])
	if err != nil {
		return err
	}
	if stats.Matches == 0 {
		fmt.Fprintf(os.Stderr, "No replays recorded for %s.\n", args[0])
		return nil
	}

	fmt.Printf("%s\n\n", stats.Character)
	fmt.Printf("  Matches  %d\n", stats.Matches)
	fmt.Printf("  Wins     %d\n", stats.Wins)
	fmt.Printf("  Draws    %d\n", stats.Draws)
	fmt.Printf("  Losses   %d\n", stats.Matches-stats.Wins-stats.Draws)
	fmt.Printf("  Last     %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	return nil
}
