// Package fight is the deterministic simulation core: two characters, one
// fixed tick at a time. It is single-threaded, performs no I/O and never
// logs; callers drive it with AdvanceTick and consume the returned events.
package fight

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/input"
	"github.com/vovakirdan/tui-fighter/internal/movedata"
)

// ErrUnknownMove is returned when runtime state names a move missing from
// the character's table. It is fatal: the simulation halts.
var ErrUnknownMove = errors.New("fight: unknown move")

// Simulation owns both characters and advances them in lockstep.
type Simulation struct {
	cfg     config.SimConfig
	matcher *input.Matcher

	defs    [2]*movedata.Character
	chars   [2]Character
	history [2]*input.History
	boxes   [2]BoxSet

	tick int
	err  error
}

// NewSimulation creates a simulation with p1 on the left and p2 on the
// right, facing each other.
func NewSimulation(cfg config.SimConfig, p1, p2 *movedata.Character) (*Simulation, error) {
	if p1 == nil || p2 == nil {
		return nil, errors.New("fight: both characters are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:     cfg,
		matcher: input.NewMatcher(cfg.Input.MatcherConfig(), input.DefaultPatterns()),
		defs:    [2]*movedata.Character{p1, p2},
	}
	for i := range s.history {
		s.history[i] = input.NewHistory(cfg.Input.HistorySize)
	}
	s.Reset(false)
	return s, nil
}

// Reset puts both characters back at their start positions with full
// health and clears input histories. Meter survives when keepMeter is set.
// The tick counter keeps running.
func (s *Simulation) Reset(keepMeter bool) {
	mid := s.cfg.Stage.Width / 2
	half := s.cfg.Stage.StartDistance / 2
	starts := [2]int{mid - half, mid + half}
	facings := [2]int{1, -1}

	for i := range s.chars {
		meter := 0
		if keepMeter {
			meter = s.chars[i].Meter
		}
		s.chars[i] = Character{
			ID:        s.defs[i].ID,
			X:         starts[i],
			Facing:    facings[i],
			Health:    s.defs[i].Health,
			MaxHealth: s.defs[i].Health,
			Meter:     meter,
			tapUsed:   -1,
		}
		s.history[i].Reset()
		s.boxes[i] = deriveBoxes(&s.chars[i], s.defs[i], nil)
	}
}

// Tick returns the index the next AdvanceTick call will simulate.
func (s *Simulation) Tick() int {
	return s.tick
}

// Config returns the configuration the simulation runs with.
func (s *Simulation) Config() config.SimConfig {
	return s.cfg
}

// Character returns a copy of one side's state.
func (s *Simulation) Character(side Side) Character {
	return s.chars[side]
}

// Definition returns one side's move table.
func (s *Simulation) Definition(side Side) *movedata.Character {
	return s.defs[side]
}

// Err returns the error that halted the simulation, if any.
func (s *Simulation) Err() error {
	return s.err
}

// Refill restores full health and meter for both sides.
func (s *Simulation) Refill() {
	for i := range s.chars {
		s.chars[i].Health = s.chars[i].MaxHealth
		s.chars[i].Meter = s.cfg.Combat.MaxMeter
	}
}

// AdvanceTick simulates one tick from both players' screen-relative
// samples and returns the contacts it resolved. Order within the tick:
// record inputs, match motions, run state machines, resolve collisions,
// book damage. P1 goes first in every step.
func (s *Simulation) AdvanceTick(p1, p2 input.Sample) ([]HitEvent, error) {
	if s.err != nil {
		return nil, s.err
	}

	samples := [2]input.Sample{p1, p2}
	for i := range s.chars {
		s.history[i].Record(samples[i].Relative(s.chars[i].Facing))
	}

	var cmds [2]input.Command
	for i := range s.chars {
		cmds[i] = s.matcher.Match(s.history[i])
	}

	for i := range s.chars {
		if err := s.step(Side(i), cmds[i]); err != nil {
			return nil, s.halt(err)
		}
	}
	s.separate()
	s.face()

	if err := s.refresh(); err != nil {
		return nil, s.halt(err)
	}

	events, err := s.resolve()
	if err != nil {
		return nil, s.halt(err)
	}
	s.tick++
	return events, nil
}

func (s *Simulation) halt(err error) error {
	s.err = err
	return err
}

// move looks up the move c is performing.
func (s *Simulation) move(side Side) (*movedata.Move, error) {
	c := &s.chars[side]
	mv, ok := s.defs[side].Move(c.Move)
	if !ok {
		return nil, fmt.Errorf("%w %q for %s (%s)", ErrUnknownMove, c.Move, c.ID, side)
	}
	return mv, nil
}

// refresh recomputes invincibility, airborne state and box sets from the
// current phase, move and frame.
func (s *Simulation) refresh() error {
	for i := range s.chars {
		c := &s.chars[i]
		var mv *movedata.Move
		c.StrikeInvincible, c.ThrowInvincible, c.Airborne = false, false, false

		switch c.Phase {
		case PhaseKnockdown, PhaseWakeup:
			c.StrikeInvincible, c.ThrowInvincible = true, true
		case PhaseHitstun, PhaseBlockstun:
			c.ThrowInvincible = true
		case PhaseAttacking:
			var err error
			if mv, err = s.move(Side(i)); err != nil {
				return err
			}
			c.StrikeInvincible, c.ThrowInvincible = mv.InvincibleAt(c.Frame)
			c.Airborne = mv.AirborneAt(c.Frame)
		}
		s.boxes[i] = deriveBoxes(c, s.defs[i], mv)
	}
	return nil
}

// DebugOptions selects what a snapshot carries.
type DebugOptions struct {
	Boxes  bool // include box sets
	Inputs int  // number of recent samples per side, 0 for none
}

// DebugSnapshot is an independent copy of simulation state.
type DebugSnapshot struct {
	Tick       int
	Characters [2]Character
	Boxes      [2]BoxSet
	Inputs     [2][]input.Sample // facing-relative, oldest first
}

// Debug returns a deep copy of the current state.
func (s *Simulation) Debug(opts DebugOptions) DebugSnapshot {
	snap := DebugSnapshot{Tick: s.tick, Characters: s.chars}
	for i := range s.chars {
		if opts.Boxes {
			snap.Boxes[i] = append(BoxSet(nil), s.boxes[i]...)
		}
		if opts.Inputs > 0 {
			snap.Inputs[i] = s.history[i].Window(opts.Inputs)
		}
	}
	return snap
}

// Clone returns an independent simulation in the same state. Move tables
// are shared; they are read-only.
func (s *Simulation) Clone() *Simulation {
	c := *s
	for i := range s.history {
		c.history[i] = s.history[i].Clone()
		c.boxes[i] = append(BoxSet(nil), s.boxes[i]...)
	}
	return &c
}

// Hash returns an FNV-64a digest of the simulation state, including each
// side's retained input history, for comparing runs of the same inputs.
func (s *Simulation) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		h.Write(buf[:])
	}
	str := func(v string) {
		put(len(v))
		h.Write([]byte(v))
	}
	flag := func(b bool) {
		if b {
			put(1)
		} else {
			put(0)
		}
	}

	put(s.tick)
	for i := range s.chars {
		c := &s.chars[i]
		str(c.ID)
		str(c.Move)
		for _, v := range []int{c.X, c.Y, c.Facing, c.Health, c.Meter, int(c.Phase), c.Frame, c.Stun, c.Combo, c.Advantage, c.Instance, c.tapUsed} {
			put(v)
		}
		put(int(c.resolved))
		put(int(c.whiffed))
		flag(c.Crouching)
		flag(c.Airborne)
		flag(c.StrikeInvincible)
		flag(c.ThrowInvincible)
		flag(c.contact)

		// Retained input decides future motions and parries.
		hist := s.history[i]
		put(hist.Len())
		for _, smp := range hist.Window(hist.Len()) {
			put(int(smp.Dir))
			put(int(smp.Buttons))
		}
	}
	return h.Sum64()
}

func (s *Simulation) clampX(x int, side Side) int {
	margin := s.wallMargin(side)
	return core.Clamp(x, margin, s.cfg.Stage.Width-margin)
}

// wallMargin is how close the character's origin may get to a wall.
func (s *Simulation) wallMargin(side Side) int {
	pb := s.defs[side].Pushbox
	return core.Max(-pb.X, pb.X+pb.W)
}
