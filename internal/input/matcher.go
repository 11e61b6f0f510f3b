package input

import "sort"

// MotionID names a recognisable special-move input, e.g. "qcf".
type MotionID string

const (
	MotionQCF        MotionID = "qcf"
	MotionQCB        MotionID = "qcb"
	MotionDP         MotionID = "dp"
	MotionRDP        MotionID = "rdp"
	MotionHCF        MotionID = "hcf"
	MotionHCB        MotionID = "hcb"
	MotionChargeBack MotionID = "charge_back"
	MotionChargeDown MotionID = "charge_down"
)

// Zone is a class of lever positions used by charge patterns.
type Zone uint8

const (
	ZoneNone Zone = iota
	ZoneBack
	ZoneDown
	ZoneForward
	ZoneUp
)

// Contains reports whether d lies in the zone.
func (z Zone) Contains(d Direction) bool {
	switch z {
	case ZoneBack:
		return d.IsBack()
	case ZoneDown:
		return d.IsDown()
	case ZoneForward:
		return d.IsForward()
	case ZoneUp:
		return d.IsUp()
	default:
		return false
	}
}

// Pattern describes one way of producing a motion. A motion pattern lists
// an ordered direction sequence; a charge pattern holds one zone and
// releases into another. Several patterns may share an ID to express
// lenient variants.
type Pattern struct {
	ID       MotionID
	Sequence []Direction

	Hold    Zone
	Release Zone
	MinHold int // 0 uses MatcherConfig.ChargeFrames
}

// IsCharge reports whether the pattern is a charge pattern.
func (p Pattern) IsCharge() bool {
	return p.Hold != ZoneNone
}

// Specificity ranks patterns; longer patterns win ties on the same tick.
func (p Pattern) Specificity() int {
	if p.IsCharge() {
		return 2
	}
	return len(p.Sequence)
}

// DefaultPatterns returns the standard motion library. Declaration order
// breaks ties between patterns of equal length, so the dragon punch is
// listed ahead of the quarter circles.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{ID: MotionHCF, Sequence: []Direction{Back, DownBack, Down, DownForward, Forward}},
		{ID: MotionHCB, Sequence: []Direction{Forward, DownForward, Down, DownBack, Back}},
		{ID: MotionDP, Sequence: []Direction{Forward, Down, DownForward}},
		{ID: MotionRDP, Sequence: []Direction{Back, Down, DownBack}},
		{ID: MotionQCF, Sequence: []Direction{Down, DownForward, Forward}},
		{ID: MotionQCB, Sequence: []Direction{Down, DownBack, Back}},
		{ID: MotionChargeBack, Hold: ZoneBack, Release: ZoneForward},
		{ID: MotionChargeDown, Hold: ZoneDown, Release: ZoneUp},
		{ID: MotionQCF, Sequence: []Direction{Down, Forward}},
		{ID: MotionQCB, Sequence: []Direction{Down, Back}},
	}
}

// MatcherConfig tunes input leniency.
type MatcherConfig struct {
	Window           int // ticks a whole motion may span, button included
	ButtonLeniency   int // ticks between the final direction and the button
	ChargeFrames     int // default ticks a charge zone must be held
	NeutralTolerance int // neutral ticks forgiven inside a charge
}

// DefaultMatcherConfig returns the standard leniency settings.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		Window:           12,
		ButtonLeniency:   4,
		ChargeFrames:     45,
		NeutralTolerance: 2,
	}
}

// CommandKind classifies a resolved command.
type CommandKind uint8

const (
	CommandNone CommandKind = iota
	CommandButton
	CommandMotion
)

func (k CommandKind) String() string {
	switch k {
	case CommandButton:
		return "button"
	case CommandMotion:
		return "motion"
	default:
		return "none"
	}
}

// Command is the intent resolved from a history on one tick.
type Command struct {
	Kind    CommandKind
	Motion  MotionID   // best motion when Kind is CommandMotion
	Motions []MotionID // every matched motion, best first
	Buttons Buttons    // buttons newly pressed this tick
	Held    Buttons    // buttons held this tick
	Dir     Direction  // lever position this tick
}

// Matcher recognises motions in a history.
type Matcher struct {
	cfg      MatcherConfig
	patterns []Pattern
}

// NewMatcher creates a matcher over the given patterns.
func NewMatcher(cfg MatcherConfig, patterns []Pattern) *Matcher {
	sorted := make([]Pattern, len(patterns))
	copy(sorted, patterns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Specificity() > sorted[j].Specificity()
	})
	return &Matcher{cfg: cfg, patterns: sorted}
}

// Known reports whether id names a pattern in the library.
func (m *Matcher) Known(id MotionID) bool {
	for _, p := range m.patterns {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Match resolves the latest tick of h. Specials require a button pressed
// on this tick; a matched special always outranks the plain button.
// Histories too short for a pattern simply do not match it.
func (m *Matcher) Match(h *History) Command {
	latest := h.Latest()
	cmd := Command{Kind: CommandNone, Dir: latest.Dir, Held: latest.Buttons}

	pressed := h.Pressed()
	if pressed == 0 {
		return cmd
	}
	cmd.Kind = CommandButton
	cmd.Buttons = pressed

	for _, p := range m.patterns {
		if containsMotion(cmd.Motions, p.ID) {
			continue
		}
		var ok bool
		if p.IsCharge() {
			ok = m.matchCharge(h, p)
		} else {
			ok = m.matchSequence(h, p.Sequence)
		}
		if ok {
			cmd.Motions = append(cmd.Motions, p.ID)
		}
	}
	if len(cmd.Motions) > 0 {
		cmd.Kind = CommandMotion
		cmd.Motion = cmd.Motions[0]
	}
	return cmd
}

// matchSequence looks for seq as an ordered subsequence of the window,
// with its last direction no more than ButtonLeniency ticks before the
// latest sample.
func (m *Matcher) matchSequence(h *History, seq []Direction) bool {
	if len(seq) == 0 {
		return false
	}
	w := h.Window(m.cfg.Window)
	if len(w) < len(seq) {
		return false
	}

	last := len(w) - 1
	idx := -1
	for i := last; i >= 0 && last-i <= m.cfg.ButtonLeniency; i-- {
		if w[i].Dir == seq[len(seq)-1] {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	for k := len(seq) - 2; k >= 0; k-- {
		found := false
		for i := idx - 1; i >= 0; i-- {
			if w[i].Dir == seq[k] {
				idx = i
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matchCharge looks for a release into p.Release within ButtonLeniency
// ticks, preceded by at least MinHold ticks in p.Hold. Up to
// NeutralTolerance neutral ticks inside the hold are forgiven.
func (m *Matcher) matchCharge(h *History, p Pattern) bool {
	need := p.MinHold
	if need <= 0 {
		need = m.cfg.ChargeFrames
	}
	if h.Len() < need+1 {
		return false
	}

	for r := 0; r <= m.cfg.ButtonLeniency && r < h.Len(); r++ {
		s, _ := h.At(r)
		if !p.Release.Contains(s.Dir) {
			continue
		}
		held, neutrals := 0, 0
	scan:
		for back := r + 1; back < h.Len(); back++ {
			prev, _ := h.At(back)
			switch {
			case p.Hold.Contains(prev.Dir):
				held++
			case prev.Dir == Neutral && neutrals < m.cfg.NeutralTolerance:
				neutrals++
			default:
				break scan
			}
			if held >= need {
				return true
			}
		}
	}
	return false
}

func containsMotion(list []MotionID, id MotionID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
