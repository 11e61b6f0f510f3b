package fight

import "fmt"

// Phase is the state a character is in. Exactly one phase holds per tick.
type Phase uint8

const (
	PhaseNeutral Phase = iota
	PhaseAttacking
	PhaseHitstun
	PhaseBlockstun
	PhaseKnockdown
	PhaseWakeup
)

var phaseNames = [...]string{
	PhaseNeutral:   "neutral",
	PhaseAttacking: "attacking",
	PhaseHitstun:   "hitstun",
	PhaseBlockstun: "blockstun",
	PhaseKnockdown: "knockdown",
	PhaseWakeup:    "wakeup",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Stunned reports whether the phase ignores commands.
func (p Phase) Stunned() bool {
	return p == PhaseHitstun || p == PhaseBlockstun || p == PhaseKnockdown || p == PhaseWakeup
}

// Side identifies a combatant.
type Side int

const (
	P1 Side = iota
	P2
)

func (s Side) String() string {
	if s == P2 {
		return "P2"
	}
	return "P1"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

// Character is the runtime state of one combatant. It is a plain value:
// copying it copies the whole state.
type Character struct {
	ID        string
	X, Y      int
	Facing    int // +1 right, -1 left
	Health    int
	MaxHealth int
	Meter     int

	Phase Phase
	Move  string // current move while attacking
	Frame int    // frame index into Move
	Stun  int    // ticks left in hitstun, blockstun, knockdown or wakeup
	Combo int    // hits taken in the current combo

	// Advantage counts ticks after a successful parry during which any
	// move may be started, even over a move in progress.
	Advantage int

	Crouching        bool
	Airborne         bool
	StrikeInvincible bool
	ThrowInvincible  bool

	// Instance numbers the attack currently being performed.
	Instance int

	resolved uint64 // hit windows of Instance that already connected
	whiffed  uint64 // hit windows reported as whiffs
	contact  bool   // Instance touched the opponent
	tapUsed  int    // tick of the last tap spent on a parry
}

// Actionable reports whether the character may start a move this tick.
func (c Character) Actionable() bool {
	return c.Phase == PhaseNeutral
}

// KO reports whether the character has no health left.
func (c Character) KO() bool {
	return c.Health <= 0
}

func (c *Character) endMove() {
	c.Phase = PhaseNeutral
	c.Move = ""
	c.Frame = 0
}

func windowBit(w int) uint64 {
	if w < 0 || w > 63 {
		return 0
	}
	return 1 << uint(w)
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "P1", "p1":
		*s = P1
	case "P2", "p2":
		*s = P2
	default:
		return fmt.Errorf("unknown side %q", b)
	}
	return nil
}
