package movedata

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-fighter/internal/input"
)

// ValidationError describes one problem in a move table.
type ValidationError struct {
	Code    string
	Move    string // empty for character-level problems
	Message string
}

func (e ValidationError) Error() string {
	if e.Move == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Move, e.Message)
}

// Validation error codes.
const (
	CodeCharacter     = "CHARACTER"
	CodeDuplicateMove = "DUPLICATE_MOVE"
	CodeFrames        = "FRAMES"
	CodeBoxRange      = "BOX_RANGE"
	CodeActiveWindow  = "ACTIVE_WINDOW"
	CodeInvincibility = "INVINCIBILITY"
	CodeMultiHit      = "MULTI_HIT"
	CodeCancel        = "CANCEL"
	CodeDanglingMove  = "DANGLING_MOVE"
	CodeTrigger       = "TRIGGER"
	CodeDamage        = "DAMAGE"
)

// MaxHitWindows bounds the distinct hit windows of one move; the
// simulation tracks them in a 64-bit mask.
const MaxHitWindows = 64

// Build validates c, assigns hit windows and indexes its moves. Every
// problem found is reported; the returned error joins ValidationError
// values. known reports whether a motion id exists; nil accepts the
// default motion library.
func Build(c Character, known func(input.MotionID) bool) (*Character, error) {
	if known == nil {
		m := input.NewMatcher(input.DefaultMatcherConfig(), input.DefaultPatterns())
		known = m.Known
	}

	var errs []error
	add := func(code, move, format string, args ...any) {
		errs = append(errs, ValidationError{Code: code, Move: move, Message: fmt.Sprintf(format, args...)})
	}

	if c.ID == "" {
		add(CodeCharacter, "", "character id is required")
	}
	if c.Health <= 0 {
		add(CodeCharacter, "", "health must be positive, got %d", c.Health)
	}
	if c.StandHurtbox.Empty() || c.CrouchHurtbox.Empty() || c.Pushbox.Empty() {
		add(CodeCharacter, "", "stand, crouch and push boxes must have area")
	}
	if c.WalkForward < 0 || c.WalkBack < 0 {
		add(CodeCharacter, "", "walk speeds must not be negative")
	}

	moves := make([]Move, len(c.Moves))
	copy(moves, c.Moves)
	index := make(map[string]int, len(moves))
	for i, m := range moves {
		if m.ID == "" {
			add(CodeDuplicateMove, fmt.Sprintf("#%d", i), "move id is required")
			continue
		}
		if _, dup := index[m.ID]; dup {
			add(CodeDuplicateMove, m.ID, "declared more than once")
			continue
		}
		index[m.ID] = i
	}

	for i := range moves {
		m := &moves[i]
		errs = append(errs, validateMove(m, known)...)
		for _, cw := range m.Cancels {
			for _, target := range cw.Moves {
				if _, ok := index[target]; !ok {
					add(CodeDanglingMove, m.ID, "cancel target %q does not exist", target)
				}
			}
		}
		m.Boxes = append([]BoxEntry(nil), m.Boxes...)
		assignWindows(m)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c.Moves = moves
	c.index = index
	return &c, nil
}

func validateMove(m *Move, known func(input.MotionID) bool) []error {
	var errs []error
	add := func(code, format string, args ...any) {
		errs = append(errs, ValidationError{Code: code, Move: m.ID, Message: fmt.Sprintf(format, args...)})
	}

	if m.Startup < 0 || m.Active < 1 || m.Recovery < 0 {
		add(CodeFrames, "startup %d / active %d / recovery %d: active must be at least 1 and none negative",
			m.Startup, m.Active, m.Recovery)
		return errs
	}
	total := FrameRange{Start: 0, End: m.Total()}
	active := m.ActiveRange()

	if m.Trigger.Buttons == 0 {
		add(CodeTrigger, "input %q names no buttons", m.Trigger.Notation)
	}
	if m.Trigger.Motion != "" && !known(m.Trigger.Motion) {
		add(CodeTrigger, "unknown motion %q", m.Trigger.Motion)
	}
	if m.MeterCost < 0 {
		add(CodeFrames, "meter cost must not be negative")
	}

	for _, b := range m.Boxes {
		if b.Frames.Len() <= 0 || !b.Frames.Within(total) {
			add(CodeBoxRange, "%s box %v lies outside %v", b.Kind, b.Frames, total)
			continue
		}
		if b.Rect.Empty() {
			add(CodeBoxRange, "%s box %v has no area", b.Kind, b.Frames)
		}
		if b.Kind == BoxAttack || b.Kind == BoxThrow {
			if !b.Frames.Within(active) {
				add(CodeActiveWindow, "%s box %v outside active window %v", b.Kind, b.Frames, active)
			}
			if b.Damage < 0 || b.Hitstun < 0 || b.Blockstun < 0 {
				add(CodeDamage, "%s box %v has negative damage or stun", b.Kind, b.Frames)
			}
		}
	}

	for _, iv := range m.Invincible {
		switch {
		case iv.Frames.Len() <= 0 || !iv.Frames.Within(total):
			add(CodeInvincibility, "window %v lies outside %v", iv.Frames, total)
		case iv.Frames.Start < m.Startup:
			add(CodeInvincibility, "window %v starts before startup ends at frame %d", iv.Frames, m.Startup)
		case !iv.Strike && !iv.Throw:
			add(CodeInvincibility, "window %v grants neither strike nor throw invincibility", iv.Frames)
		}
	}

	for _, cw := range m.Cancels {
		if cw.Frames.Len() <= 0 || !cw.Frames.Within(total) {
			add(CodeCancel, "window %v lies outside %v", cw.Frames, total)
		}
	}

	for _, r := range m.Airborne {
		if r.Len() <= 0 || !r.Within(total) {
			add(CodeFrames, "airborne range %v lies outside %v", r, total)
		}
	}

	if m.MultiHit {
		var windows []FrameRange
		for _, b := range m.Boxes {
			if b.Kind != BoxAttack {
				continue
			}
			for _, w := range windows {
				if w != b.Frames && w.Overlaps(b.Frames) {
					add(CodeMultiHit, "hit windows %v and %v overlap", w, b.Frames)
				}
			}
			windows = append(windows, b.Frames)
		}
		if n := countWindows(m); n > MaxHitWindows {
			add(CodeMultiHit, "%d hit windows, at most %d are supported", n, MaxHitWindows)
		}
	}
	return errs
}

// countWindows returns the number of distinct attack and throw frame
// ranges, the windows assignWindows would number.
func countWindows(m *Move) int {
	var seen []FrameRange
next:
	for _, b := range m.Boxes {
		if b.Kind != BoxAttack && b.Kind != BoxThrow {
			continue
		}
		for _, r := range seen {
			if r == b.Frames {
				continue next
			}
		}
		seen = append(seen, b.Frames)
	}
	return len(seen)
}

// assignWindows numbers hit windows: one per distinct attack frame range
// for multi-hit moves, a single window otherwise.
func assignWindows(m *Move) {
	var seen []FrameRange
	for i := range m.Boxes {
		b := &m.Boxes[i]
		if b.Kind != BoxAttack && b.Kind != BoxThrow {
			continue
		}
		if !m.MultiHit {
			b.Window = 0
			continue
		}
		idx := -1
		for j, r := range seen {
			if r == b.Frames {
				idx = j
				break
			}
		}
		if idx < 0 {
			seen = append(seen, b.Frames)
			idx = len(seen) - 1
		}
		b.Window = idx
	}
}
