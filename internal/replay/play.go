package replay

import (
	"fmt"

	"github.com/vovakirdan/tui-fighter/internal/fight"
	"github.com/vovakirdan/tui-fighter/internal/match"
	"github.com/vovakirdan/tui-fighter/internal/movedata"
)

// Loader builds a character's move table by id. roster.Load satisfies it.
type Loader func(id string) (*movedata.Character, error)

// Playback is the result of re-driving a log.
type Playback struct {
	Events []fight.HitEvent
	Rounds []match.RoundResult
	Result match.Result
	Hash   uint64
}

// Play rebuilds the match recorded in l from fresh move tables and feeds
// it every record. The returned events are exactly those the original
// run produced, provided the tables and config are unchanged.
func Play(l *Log, load Loader) (*Playback, error) {
	m, err := rebuild(l, load)
	if err != nil {
		return nil, err
	}

	pb := &Playback{}
	for _, r := range l.Records {
		upd, err := m.Step(r.P1, r.P2)
		if err != nil {
			return nil, fmt.Errorf("replay: tick %d: %w", r.Tick, err)
		}
		pb.Events = append(pb.Events, upd.Events...)
		if upd.Round != nil {
			pb.Rounds = append(pb.Rounds, *upd.Round)
		}
	}
	pb.Result = m.Result()
	pb.Hash = m.Simulation().Hash()
	return pb, nil
}

// Verify plays l back and checks the final state against the recorded
// hash.
func Verify(l *Log, load Loader) (*Playback, error) {
	pb, err := Play(l, load)
	if err != nil {
		return nil, err
	}
	if pb.Hash != l.Hash {
		return pb, fmt.Errorf("%w: recorded %016x, replayed %016x", ErrDesync, l.Hash, pb.Hash)
	}
	return pb, nil
}

func rebuild(l *Log, load Loader) (*match.Match, error) {
	if err := l.Check(); err != nil {
		return nil, err
	}
	p1, err := load(l.P1)
	if err != nil {
		return nil, err
	}
	p2, err := load(l.P2)
	if err != nil {
		return nil, err
	}
	sim, err := fight.NewSimulation(l.Config, p1, p2)
	if err != nil {
		return nil, err
	}
	return match.New(sim), nil
}
