package fight

import (
	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/input"
	"github.com/vovakirdan/tui-fighter/internal/movedata"
)

// step runs one character's state machine for the tick: counters and
// frame advance, phase exits, move starts and cancels, neutral movement.
func (s *Simulation) step(side Side, cmd input.Command) error {
	c := &s.chars[side]
	if c.Advantage > 0 {
		c.Advantage--
	}

	switch c.Phase {
	case PhaseHitstun:
		if c.Stun--; c.Stun <= 0 {
			c.Stun = 0
			c.Phase = PhaseNeutral
			c.Combo = 0
		}
	case PhaseBlockstun:
		if c.Stun--; c.Stun <= 0 {
			c.Stun = 0
			c.Phase = PhaseNeutral
		}
	case PhaseKnockdown:
		if c.Stun--; c.Stun <= 0 {
			c.Phase = PhaseWakeup
			c.Stun = s.cfg.Combat.WakeupFrames
			c.Combo = 0
		}
	case PhaseWakeup:
		if c.Stun--; c.Stun <= 0 {
			c.Stun = 0
			c.Phase = PhaseNeutral
		}
	case PhaseAttacking:
		mv, err := s.move(side)
		if err != nil {
			return err
		}
		c.Frame++
		if c.Frame >= mv.Total() {
			s.finishMove(side, mv)
		}
	}

	if err := s.command(side, cmd); err != nil {
		return err
	}

	switch c.Phase {
	case PhaseNeutral:
		s.walk(side, cmd.Dir)
	case PhaseBlockstun:
		c.Crouching = cmd.Dir.IsDown()
	}
	return nil
}

// command starts or cancels into the move cmd asks for. Requests the
// current phase does not allow are dropped.
func (s *Simulation) command(side Side, cmd input.Command) error {
	c := &s.chars[side]
	if cmd.Kind == input.CommandNone || c.Phase.Stunned() {
		return nil
	}

	next, ok := s.defs[side].Resolve(cmd, cmd.Dir.IsDown(), c.Meter)
	if !ok {
		return nil
	}

	switch c.Phase {
	case PhaseNeutral:
		s.startMove(side, next)
	case PhaseAttacking:
		cur, err := s.move(side)
		if err != nil {
			return err
		}
		if (c.Advantage > 0 && next.ID != cur.ID) || cur.CanCancelInto(c.Frame, next) {
			s.finishMove(side, cur)
			s.startMove(side, next)
		}
	}
	return nil
}

func (s *Simulation) startMove(side Side, mv *movedata.Move) {
	c := &s.chars[side]
	c.Meter -= mv.MeterCost
	c.Phase = PhaseAttacking
	c.Move = mv.ID
	c.Frame = 0
	c.Instance++
	c.resolved, c.whiffed, c.contact = 0, 0, false
	c.Crouching = mv.Trigger.Stance == movedata.StanceCrouching
}

// finishMove ends the current move. A move that never touched the
// opponent still builds a little meter.
func (s *Simulation) finishMove(side Side, mv *movedata.Move) {
	c := &s.chars[side]
	if !c.contact && mv.HitWindows() > 0 {
		s.gainMeter(side, s.cfg.Combat.MeterOnWhiff)
	}
	c.endMove()
}

func (s *Simulation) gainMeter(side Side, n int) {
	c := &s.chars[side]
	c.Meter = core.Min(c.Meter+n, s.cfg.Combat.MaxMeter)
}

// walk applies neutral movement from a facing-relative lever position.
func (s *Simulation) walk(side Side, dir input.Direction) {
	c := &s.chars[side]
	def := s.defs[side]
	c.Crouching = dir.IsDown()
	if c.Crouching {
		return
	}
	switch {
	case dir.IsForward():
		c.X += c.Facing * def.WalkForward
	case dir.IsBack():
		c.X -= c.Facing * def.WalkBack
	}
	c.X = s.clampX(c.X, side)
}

// face turns neutral characters toward the opponent.
func (s *Simulation) face() {
	for i := range s.chars {
		c := &s.chars[i]
		if c.Phase != PhaseNeutral {
			continue
		}
		if d := core.Sign(s.chars[1-i].X - c.X); d != 0 {
			c.Facing = d
		}
	}
}

// separate pushes overlapping characters apart and keeps both on stage.
// When one side is against a wall the other takes the whole push.
func (s *Simulation) separate() {
	for i := range s.chars {
		s.chars[i].X = s.clampX(s.chars[i].X, Side(i))
	}

	a, b := s.pushbox(P1), s.pushbox(P2)
	depth := a.Overlap(b)
	if depth <= 0 {
		return
	}

	left, right := P1, P2
	p1, p2 := &s.chars[P1], &s.chars[P2]
	if p2.X < p1.X || p2.X == p1.X && p1.Facing < 0 {
		left, right = P2, P1
	}
	l, r := &s.chars[left], &s.chars[right]

	wantL := l.X - depth/2
	wantR := r.X + depth - depth/2
	l.X = s.clampX(wantL, left)
	r.X = s.clampX(wantR, right)
	// Whatever a wall absorbed goes to the other side.
	if short := l.X - wantL; short > 0 {
		r.X = s.clampX(r.X+short, right)
	}
	if short := wantR - r.X; short > 0 {
		l.X = s.clampX(l.X-short, left)
	}
}

// pushbox returns the character's current world-space pushbox.
func (s *Simulation) pushbox(side Side) core.Rect {
	c := &s.chars[side]
	r := s.defs[side].Pushbox
	if c.Phase == PhaseAttacking {
		if mv, ok := s.defs[side].Move(c.Move); ok {
			for _, e := range mv.BoxesAt(c.Frame) {
				if e.Kind == movedata.BoxPush {
					r = e.Rect
					break
				}
			}
		}
	}
	return r.Place(c.X, c.Y, c.Facing)
}

// pushback moves the defender away from the attacker. A defender pinned
// against the wall pushes the attacker back instead.
func (s *Simulation) pushback(attacker Side, dist int) {
	if dist <= 0 {
		return
	}
	a, d := &s.chars[attacker], &s.chars[attacker.Other()]
	dir := core.Sign(d.X - a.X)
	if dir == 0 {
		dir = a.Facing
	}
	want := d.X + dir*dist
	d.X = s.clampX(want, attacker.Other())
	if rest := core.Abs(want - d.X); rest > 0 {
		a.X = s.clampX(a.X-dir*rest, attacker)
	}
}
