package movedata

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-fighter/internal/input"
)

// ParseTrigger parses input notation:
//
//	LP        standing light punch
//	2MK       crouching medium kick
//	6MP       medium punch while holding forward
//	LP+LK     both buttons (throw)
//	qcf+P     quarter circle forward plus any punch
//	charge_back+K
func ParseTrigger(s string) (Trigger, error) {
	t := Trigger{Notation: s, Stance: StanceStanding}
	parts := strings.Split(strings.TrimSpace(s), "+")
	if len(parts) == 0 || parts[0] == "" {
		return t, fmt.Errorf("empty input")
	}

	if first := parts[0]; !isButtonToken(first) && !isDigit(first[0]) {
		t.Motion = input.MotionID(strings.ToLower(first))
		t.Stance = StanceAny
		parts = parts[1:]
		if len(parts) == 0 {
			return t, fmt.Errorf("input %q has a motion but no button", s)
		}
	}

	if tok := parts[0]; tok != "" && isDigit(tok[0]) {
		d, err := input.ParseDirection(tok[:1])
		if err != nil {
			return t, err
		}
		switch {
		case d.IsDown():
			t.Stance = StanceCrouching
		case d.IsForward():
			t.Lever = input.ZoneForward
		case d.IsBack():
			t.Lever = input.ZoneBack
		}
		parts[0] = tok[1:]
	}

	b, err := input.ParseButtons(strings.Join(parts, "+"))
	if err != nil {
		return t, err
	}
	t.Buttons = b
	t.RequireAll = len(parts) > 1
	return t, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isButtonToken(s string) bool {
	_, err := input.ParseButtons(s)
	return err == nil
}

// Accepts reports whether cmd satisfies the trigger's button and stance
// requirements. The motion itself is checked by the caller.
func (t Trigger) Accepts(cmd input.Command, crouching bool) bool {
	switch t.Stance {
	case StanceStanding:
		if crouching {
			return false
		}
	case StanceCrouching:
		if !crouching {
			return false
		}
	}
	if t.Lever != input.ZoneNone && !t.Lever.Contains(cmd.Dir) {
		return false
	}
	if t.RequireAll {
		return (cmd.Buttons | cmd.Held).Has(t.Buttons) && cmd.Buttons.Any(t.Buttons)
	}
	return cmd.Buttons.Any(t.Buttons)
}

// Resolve picks the move a command starts. Matched motions are tried in
// rank order before any plain-button move; among plain moves, multi-button
// triggers come first, then lever-specific ones. Moves costing more than
// meter are skipped.
func (c *Character) Resolve(cmd input.Command, crouching bool, meter int) (*Move, bool) {
	if cmd.Kind == input.CommandNone {
		return nil, false
	}
	affordable := func(m *Move) bool { return m.MeterCost <= meter }

	for _, motion := range cmd.Motions {
		for i := range c.Moves {
			m := &c.Moves[i]
			if m.Trigger.Motion == motion && m.Trigger.Accepts(cmd, crouching) && affordable(m) {
				return m, true
			}
		}
	}

	for tier := 0; tier < 3; tier++ {
		for i := range c.Moves {
			m := &c.Moves[i]
			if m.Trigger.Motion != "" || m.Trigger.tier() != tier {
				continue
			}
			if m.Trigger.Accepts(cmd, crouching) && affordable(m) {
				return m, true
			}
		}
	}
	return nil, false
}

func (t Trigger) tier() int {
	switch {
	case t.RequireAll:
		return 0
	case t.Lever != input.ZoneNone:
		return 1
	default:
		return 2
	}
}
