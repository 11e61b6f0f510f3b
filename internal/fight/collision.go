package fight

import "github.com/vovakirdan/tui-fighter/internal/movedata"

// decision is one ordered pair's judged contact, built and discarded
// within a tick.
type decision struct {
	attacker Side
	move     *movedata.Move
	entry    movedata.BoxEntry
	window   int
	outcome  Outcome
	tap      int // tick of the parry tap spent
}

// resolve judges both ordered pairs against the state left by the state
// machines, then applies the results P1 first.
func (s *Simulation) resolve() ([]HitEvent, error) {
	var moves [2]*movedata.Move
	for i := range s.chars {
		if s.chars[i].Phase != PhaseAttacking {
			continue
		}
		mv, err := s.move(Side(i))
		if err != nil {
			return nil, err
		}
		moves[i] = mv
	}

	var decided [2]*decision
	throws := [2]*decision{s.judgeThrow(P1, moves[P1]), s.judgeThrow(P2, moves[P2])}
	switch {
	case throws[P1] != nil && throws[P2] != nil:
		throws[P1].outcome = OutcomeThrowTech
		throws[P2].outcome = OutcomeThrowTech
		decided = throws
	case throws[P1] != nil:
		decided[P1] = throws[P1]
	case throws[P2] != nil:
		decided[P2] = throws[P2]
	default:
		for i := range s.chars {
			decided[i] = s.judgeStrike(Side(i), moves[i])
		}
		if decided[P1] != nil && decided[P2] != nil &&
			decided[P1].outcome == OutcomeHit && decided[P2].outcome == OutcomeHit {
			decided[P1].outcome = OutcomeTrade
			decided[P2].outcome = OutcomeTrade
		}
	}

	if decided[P1] == nil && decided[P2] == nil {
		return nil, nil
	}

	pre := s.chars
	var events []HitEvent
	if decided[P1] != nil && decided[P1].outcome == OutcomeThrowTech {
		events = s.applyTech(decided, pre)
	} else {
		for _, d := range decided {
			if d != nil {
				events = append(events, s.apply(d, pre))
			}
		}
	}
	return events, s.refresh()
}

// judgeThrow checks the attacker's live throw boxes against a throwable
// defender.
func (s *Simulation) judgeThrow(att Side, mv *movedata.Move) *decision {
	if mv == nil {
		return nil
	}
	a, d := &s.chars[att], &s.chars[att.Other()]
	if d.Airborne || d.ThrowInvincible || d.Phase.Stunned() {
		return nil
	}
	hurts := s.boxes[att.Other()].Of(movedata.BoxHurt)
	for _, tb := range s.boxes[att].Of(movedata.BoxThrow) {
		if a.resolved&windowBit(tb.Window) != 0 {
			continue
		}
		for _, hb := range hurts {
			if tb.Rect.Intersects(hb.Rect) {
				return &decision{attacker: att, move: mv, entry: mv.Boxes[tb.Entry], window: tb.Window, outcome: OutcomeThrow}
			}
		}
	}
	return nil
}

// judgeStrike finds the first attack box, in declaration order, touching
// an opposing hurtbox in a hit window the instance has not resolved yet,
// and decides the outcome.
func (s *Simulation) judgeStrike(att Side, mv *movedata.Move) *decision {
	if mv == nil {
		return nil
	}
	def := att.Other()
	a, d := &s.chars[att], &s.chars[def]
	hurts := s.boxes[def].Of(movedata.BoxHurt)

attacks:
	for _, ab := range s.boxes[att].Of(movedata.BoxAttack) {
		bit := windowBit(ab.Window)
		if a.resolved&bit != 0 {
			continue
		}
		for _, hb := range hurts {
			if !ab.Rect.Intersects(hb.Rect) {
				continue
			}
			dec := &decision{attacker: att, move: mv, entry: mv.Boxes[ab.Entry], window: ab.Window}
			switch {
			case d.StrikeInvincible:
				if a.whiffed&bit != 0 {
					continue attacks
				}
				dec.outcome = OutcomeWhiff
			default:
				if tap, ok := s.findParry(def, dec.entry.Guard); ok {
					dec.outcome = OutcomeParry
					dec.tap = tap
				} else if s.blocks(def, dec.entry.Guard) {
					dec.outcome = OutcomeBlock
				} else {
					dec.outcome = OutcomeHit
				}
			}
			return dec
		}
	}
	return nil
}

// apply books one decision. pre is the state both pairs were judged on.
func (s *Simulation) apply(dec *decision, pre [2]Character) HitEvent {
	att, def := dec.attacker, dec.attacker.Other()
	a, d := &s.chars[att], &s.chars[def]
	e := dec.entry
	frame := pre[att].Frame
	bit := windowBit(dec.window)

	ev := HitEvent{
		Tick:     s.tick,
		Attacker: att,
		Defender: def,
		Move:     dec.move.ID,
		Window:   dec.window,
		Outcome:  dec.outcome,
		Combo:    pre[def].Combo,
	}

	if dec.outcome == OutcomeWhiff {
		a.whiffed |= bit
		return ev
	}
	a.resolved |= bit
	a.contact = true

	switch dec.outcome {
	case OutcomeParry:
		d.tapUsed = dec.tap
		d.Phase = PhaseNeutral
		d.Stun = 0
		d.Advantage = s.cfg.Parry.Advantage
		ev.Advantage = dec.move.Advantage(frame, 0)

	case OutcomeBlock:
		ev.Damage = s.ChipDamage(e.Damage)
		s.damage(def, ev.Damage)
		d.Phase = PhaseBlockstun
		d.Stun = e.Blockstun
		ev.Stun = e.Blockstun
		ev.Advantage = dec.move.Advantage(frame, e.Blockstun)
		s.gainMeter(att, s.cfg.Combat.MeterOnBlock)
		s.pushback(att, e.Pushback)

	case OutcomeHit, OutcomeTrade:
		ev.Combo = nextCombo(pre[def].Combo, pre[def].Phase == PhaseHitstun)
		ev.Damage = s.ScaledDamage(e.Damage, ev.Combo)
		s.damage(def, ev.Damage)
		d.Combo = ev.Combo
		ev.Knockdown = e.Knockdown || d.KO()
		ev.Stun, ev.Advantage = s.stun(def, frame, dec.move, e.Hitstun, ev.Knockdown)
		s.gainMeter(att, s.cfg.Combat.MeterOnHit)
		s.pushback(att, e.Pushback)

	case OutcomeThrow:
		ev.Damage = e.Damage
		s.damage(def, ev.Damage)
		ev.Knockdown = e.Knockdown || d.KO()
		ev.Stun, ev.Advantage = s.stun(def, frame, dec.move, e.Hitstun, ev.Knockdown)
		s.gainMeter(att, s.cfg.Combat.MeterOnHit)
		s.pushback(att, e.Pushback)
	}
	return ev
}

// stun interrupts the defender and puts it in hitstun or knockdown. It
// returns the stun applied and the attacker's frame advantage.
func (s *Simulation) stun(def Side, frame int, mv *movedata.Move, hitstun int, knockdown bool) (int, int) {
	d := &s.chars[def]
	d.Move = ""
	d.Frame = 0
	d.Crouching = false
	if knockdown {
		d.Phase = PhaseKnockdown
		d.Stun = s.cfg.Combat.KnockdownFrames
		return d.Stun, mv.Advantage(frame, d.Stun+s.cfg.Combat.WakeupFrames)
	}
	d.Phase = PhaseHitstun
	d.Stun = hitstun
	return hitstun, mv.Advantage(frame, hitstun)
}

// applyTech breaks simultaneous throws: both throws end and the
// characters are pushed apart.
func (s *Simulation) applyTech(decided [2]*decision, pre [2]Character) []HitEvent {
	events := make([]HitEvent, 0, 2)
	for _, dec := range decided {
		att := dec.attacker
		s.chars[att].resolved |= windowBit(dec.window)
		s.chars[att].contact = true
		events = append(events, HitEvent{
			Tick:     s.tick,
			Attacker: att,
			Defender: att.Other(),
			Move:     dec.move.ID,
			Window:   dec.window,
			Outcome:  OutcomeThrowTech,
			Combo:    pre[att.Other()].Combo,
		})
	}
	push := s.cfg.Combat.ThrowTechPush
	s.chars[P1].endMove()
	s.chars[P2].endMove()
	s.pushback(P1, push/2)
	s.pushback(P2, push-push/2)
	return events
}
