package fight

import (
	"github.com/vovakirdan/tui-fighter/internal/input"
	"github.com/vovakirdan/tui-fighter/internal/movedata"
)

// parryTap returns the lever position a parry against guard needs.
func parryTap(guard movedata.GuardType) (input.Direction, bool) {
	switch guard {
	case movedata.GuardHigh, movedata.GuardOverhead:
		return input.Forward, true
	case movedata.GuardLow:
		return input.Down, true
	default:
		return 0, false
	}
}

// findParry looks for an unspent tap in the defender's history that
// parries an attack of the given guard type on this tick. It returns the
// tick of the tap. The defender must be neutral or blocking; blockstun
// narrows the window.
func (s *Simulation) findParry(defender Side, guard movedata.GuardType) (int, bool) {
	c := &s.chars[defender]
	window := s.cfg.Parry.Window
	switch c.Phase {
	case PhaseNeutral:
	case PhaseBlockstun:
		window = s.cfg.Parry.RedWindow
	default:
		return 0, false
	}

	want, ok := parryTap(guard)
	if !ok {
		return 0, false
	}

	h := s.history[defender]
	for back := 0; back < window; back++ {
		tick := s.tick - back
		if tick <= c.tapUsed {
			break
		}
		cur, ok := h.At(back)
		if !ok {
			break
		}
		if cur.Dir != want {
			continue
		}
		prev, ok := h.At(back + 1)
		if ok && prev.Dir != want {
			return tick, true
		}
	}
	return 0, false
}

// blocks reports whether the defender guards an attack of the given type.
func (s *Simulation) blocks(defender Side, guard movedata.GuardType) bool {
	c := &s.chars[defender]
	if c.Phase != PhaseNeutral && c.Phase != PhaseBlockstun {
		return false
	}
	dir := s.history[defender].Latest().Dir
	if !dir.IsBack() {
		return false
	}
	switch guard {
	case movedata.GuardHigh:
		return true
	case movedata.GuardLow:
		return dir == input.DownBack
	case movedata.GuardOverhead:
		return dir != input.DownBack
	default:
		return false
	}
}
