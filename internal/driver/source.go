// Package driver feeds input sources into a recorded match, either in
// real time on a ticker or as fast as possible for headless runs.
package driver

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-fighter/internal/fight"
	"github.com/vovakirdan/tui-fighter/internal/input"
	"github.com/vovakirdan/tui-fighter/internal/movedata"
)

// View is what a source sees before choosing its next sample.
type View struct {
	Tick     int
	Side     fight.Side
	Self     fight.Character
	Opponent fight.Character

	// OpponentMove is the move the opponent is performing, nil when it is
	// not attacking.
	OpponentMove *movedata.Move
}

func viewOf(sim *fight.Simulation, side fight.Side) View {
	v := View{
		Tick:     sim.Tick(),
		Side:     side,
		Self:     sim.Character(side),
		Opponent: sim.Character(side.Other()),
	}
	if v.Opponent.Phase == fight.PhaseAttacking {
		v.OpponentMove, _ = sim.Definition(side.Other()).Move(v.Opponent.Move)
	}
	return v
}

// nextHit returns the first attack or throw entry of the opponent's move
// that has not started yet.
func (v View) nextHit() (movedata.BoxEntry, bool) {
	if v.OpponentMove == nil {
		return movedata.BoxEntry{}, false
	}
	for _, b := range v.OpponentMove.Boxes {
		if (b.Kind == movedata.BoxAttack || b.Kind == movedata.BoxThrow) && b.Frames.Start > v.Opponent.Frame {
			return b, true
		}
	}
	return movedata.BoxEntry{}, false
}

// screen converts a facing-relative sample into the screen-relative form
// AdvanceTick expects.
func (v View) screen(s input.Sample) input.Sample {
	return s.Relative(v.Self.Facing)
}

// Source produces one screen-relative sample per tick.
type Source interface {
	Next(v View) input.Sample
}

// SourceFunc adapts a function to Source.
type SourceFunc func(v View) input.Sample

func (f SourceFunc) Next(v View) input.Sample {
	return f(v)
}

// Stand never touches the controller.
func Stand() Source {
	return SourceFunc(func(View) input.Sample { return input.Idle })
}

// Crouch holds down.
func Crouch() Source {
	return SourceFunc(func(View) input.Sample { return input.Sample{Dir: input.Down} })
}

// blockLead is how many ticks before an attack becomes active BlockAll
// starts holding back. Holding back earlier would walk it out of range.
const blockLead = 4

// BlockAll holds back against incoming attacks, crouching against lows.
func BlockAll() Source {
	return SourceFunc(func(v View) input.Sample {
		if v.OpponentMove == nil {
			return input.Idle
		}
		for _, b := range v.OpponentMove.Boxes {
			if b.Kind != movedata.BoxAttack || b.Frames.End <= v.Opponent.Frame || b.Frames.Start-v.Opponent.Frame > blockLead {
				continue
			}
			dir := input.Back
			if b.Guard == movedata.GuardLow {
				dir = input.DownBack
			}
			return v.screen(input.Sample{Dir: dir})
		}
		return input.Idle
	})
}

// parryLead is how many ticks before an attack becomes active the parry
// dummies tap.
const parryLead = 2

// Parry taps toward the opponent (high) or down (low) just before each
// of the opponent's hit windows opens.
func Parry(low bool) Source {
	tap := input.Forward
	if low {
		tap = input.Down
	}
	return SourceFunc(func(v View) input.Sample {
		if b, ok := v.nextHit(); ok && b.Kind == movedata.BoxAttack && b.Frames.Start-v.Opponent.Frame == parryLead {
			return v.screen(input.Sample{Dir: tap})
		}
		return input.Idle
	})
}

// Random mashes seeded random inputs. The same seed always produces the
// same sequence.
func Random(seed uint64) Source {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return SourceFunc(func(View) input.Sample {
		s := input.Sample{Dir: input.Direction(1 + r.IntN(9))}
		if r.IntN(3) == 0 {
			s.Buttons = input.Buttons(1 << r.IntN(6))
		}
		return s
	})
}

// Script plays samples keyed by simulation tick and idles otherwise.
type Script map[int]input.Sample

func (s Script) Next(v View) input.Sample {
	if smp, ok := s[v.Tick]; ok {
		return smp
	}
	return input.Idle
}

var builtins = map[string]func(seed uint64) Source{
	"stand":      func(uint64) Source { return Stand() },
	"crouch":     func(uint64) Source { return Crouch() },
	"block":      func(uint64) Source { return BlockAll() },
	"parry-high": func(uint64) Source { return Parry(false) },
	"parry-low":  func(uint64) Source { return Parry(true) },
	"random":     Random,
}

// Names lists the built-in sources.
func Names() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParseSource builds a built-in source by name.
func ParseSource(name string, seed uint64) (Source, error) {
	mk, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("driver: unknown source %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return mk(seed), nil
}
