// Package movedata holds per-character move definitions: frame data, box
// timelines, invincibility, cancel windows and input triggers. Tables are
// authored in YAML, validated once at load and treated as read-only after.
package movedata

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/input"
)

// BoxKind classifies a box entry.
type BoxKind uint8

const (
	BoxAttack BoxKind = iota + 1
	BoxHurt
	BoxPush
	BoxThrow
)

var boxKindNames = map[BoxKind]string{
	BoxAttack: "attack",
	BoxHurt:   "hurt",
	BoxPush:   "push",
	BoxThrow:  "throw",
}

func (k BoxKind) String() string {
	if s, ok := boxKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseBoxKind parses a box kind name.
func ParseBoxKind(s string) (BoxKind, error) {
	for k, name := range boxKindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown box kind %q", s)
}

// GuardType classifies how an attack must be guarded.
type GuardType uint8

const (
	GuardHigh        GuardType = iota + 1 // blocked standing or crouching
	GuardLow                              // blocked crouching only
	GuardOverhead                         // blocked standing only
	GuardUnblockable                      // never blocked or parried
)

var guardNames = map[GuardType]string{
	GuardHigh:        "high",
	GuardLow:         "low",
	GuardOverhead:    "overhead",
	GuardUnblockable: "unblockable",
}

func (g GuardType) String() string {
	if s, ok := guardNames[g]; ok {
		return s
	}
	return "unknown"
}

// ParseGuardType parses a guard type name. "mid" is accepted as high.
func ParseGuardType(s string) (GuardType, error) {
	if strings.EqualFold(s, "mid") {
		return GuardHigh, nil
	}
	for g, name := range guardNames {
		if strings.EqualFold(name, s) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown guard type %q", s)
}

// MoveKind classifies a move for cancel rules.
type MoveKind uint8

const (
	KindNormal MoveKind = iota + 1
	KindSpecial
	KindSuper
	KindThrow
)

var moveKindNames = map[MoveKind]string{
	KindNormal:  "normal",
	KindSpecial: "special",
	KindSuper:   "super",
	KindThrow:   "throw",
}

func (k MoveKind) String() string {
	if s, ok := moveKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseMoveKind parses a move kind name.
func ParseMoveKind(s string) (MoveKind, error) {
	for k, name := range moveKindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown move kind %q", s)
}

// FrameRange is a half-open range of move frames [Start, End).
type FrameRange struct {
	Start, End int
}

// Contains reports whether frame f lies in the range.
func (r FrameRange) Contains(f int) bool {
	return f >= r.Start && f < r.End
}

// Len returns the number of frames in the range.
func (r FrameRange) Len() int {
	return r.End - r.Start
}

// Overlaps reports whether two ranges share a frame.
func (r FrameRange) Overlaps(o FrameRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Within reports whether r lies inside o.
func (r FrameRange) Within(o FrameRange) bool {
	return r.Start >= o.Start && r.End <= o.End
}

func (r FrameRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// BoxEntry is one box on a move's timeline. Geometry is relative to the
// character's origin (feet) while facing right.
type BoxEntry struct {
	Frames    FrameRange
	Kind      BoxKind
	Rect      core.Rect
	Guard     GuardType
	Damage    int
	Hitstun   int
	Blockstun int
	Pushback  int
	Knockdown bool

	// Window numbers the hit window this entry belongs to. Assigned at
	// load: a single window for ordinary moves, one per distinct frame
	// range for multi-hit moves.
	Window int
}

// Invincibility marks frames immune to strikes and/or throws.
type Invincibility struct {
	Frames FrameRange
	Strike bool
	Throw  bool
}

// CancelWindow lists frames during which the move may be cancelled into
// moves of the given kinds or ids. An empty target list allows any move.
type CancelWindow struct {
	Frames FrameRange
	Kinds  []MoveKind
	Moves  []string
}

// Stance restricts which posture a trigger fires from.
type Stance uint8

const (
	StanceAny Stance = iota
	StanceStanding
	StanceCrouching
)

// Trigger is the input that starts a move.
type Trigger struct {
	Notation   string
	Motion     input.MotionID
	Buttons    input.Buttons
	RequireAll bool
	Stance     Stance
	Lever      input.Zone // required lever zone, ZoneNone for any
}

// Move is one entry of a character's move table.
type Move struct {
	ID        string
	Name      string
	Kind      MoveKind
	Trigger   Trigger
	Startup   int
	Active    int
	Recovery  int
	MeterCost int
	MultiHit  bool

	Boxes      []BoxEntry
	Invincible []Invincibility
	Cancels    []CancelWindow
	Airborne   []FrameRange
}

// Total returns the move's length in frames.
func (m *Move) Total() int {
	return m.Startup + m.Active + m.Recovery
}

// ActiveRange returns the frames on which the move may hit.
func (m *Move) ActiveRange() FrameRange {
	return FrameRange{Start: m.Startup, End: m.Startup + m.Active}
}

// BoxesAt returns the entries live on frame f, in declaration order.
func (m *Move) BoxesAt(f int) []BoxEntry {
	var out []BoxEntry
	for _, b := range m.Boxes {
		if b.Frames.Contains(f) {
			out = append(out, b)
		}
	}
	return out
}

// InvincibleAt reports strike and throw invincibility on frame f.
func (m *Move) InvincibleAt(f int) (strike, throw bool) {
	for _, iv := range m.Invincible {
		if iv.Frames.Contains(f) {
			strike = strike || iv.Strike
			throw = throw || iv.Throw
		}
	}
	return strike, throw
}

// AirborneAt reports whether the character is off the ground on frame f.
func (m *Move) AirborneAt(f int) bool {
	for _, r := range m.Airborne {
		if r.Contains(f) {
			return true
		}
	}
	return false
}

// CanCancelInto reports whether next may interrupt m on frame f.
func (m *Move) CanCancelInto(f int, next *Move) bool {
	if next == nil || next.ID == m.ID {
		return false
	}
	for _, cw := range m.Cancels {
		if !cw.Frames.Contains(f) {
			continue
		}
		if len(cw.Kinds) == 0 && len(cw.Moves) == 0 {
			return true
		}
		for _, k := range cw.Kinds {
			if k == next.Kind {
				return true
			}
		}
		for _, id := range cw.Moves {
			if id == next.ID {
				return true
			}
		}
	}
	return false
}

// Advantage returns the frame advantage of a contact on frame f that
// stuns the defender for stun ticks: positive when the attacker recovers
// first. It is stun minus Total()-f, not recovery minus stun.
func (m *Move) Advantage(f, stun int) int {
	return stun - (m.Total() - f)
}

// HitWindows returns the number of distinct hit windows.
func (m *Move) HitWindows() int {
	n := 0
	for _, b := range m.Boxes {
		if (b.Kind == BoxAttack || b.Kind == BoxThrow) && b.Window+1 > n {
			n = b.Window + 1
		}
	}
	return n
}

// Character is a validated move table plus body geometry.
type Character struct {
	ID          string
	Name        string
	Health      int
	WalkForward int
	WalkBack    int

	StandHurtbox  core.Rect
	CrouchHurtbox core.Rect
	Pushbox       core.Rect

	Moves []Move

	index map[string]int
}

// Move looks a move up by id.
func (c *Character) Move(id string) (*Move, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.Moves[i], true
}
