package fight

import "fmt"

// Outcome is the result of one resolved contact.
type Outcome uint8

const (
	OutcomeHit Outcome = iota + 1
	OutcomeBlock
	OutcomeParry
	OutcomeTrade
	OutcomeThrow
	OutcomeThrowTech
	OutcomeWhiff
)

var outcomeNames = map[Outcome]string{
	OutcomeHit:       "hit",
	OutcomeBlock:     "block",
	OutcomeParry:     "parry",
	OutcomeTrade:     "trade",
	OutcomeThrow:     "throw",
	OutcomeThrowTech: "throw_tech",
	OutcomeWhiff:     "whiff",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	for k, name := range outcomeNames {
		if name == string(b) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// HitEvent reports one contact resolved on a tick. Advantage is the
// attacker's frame advantage once both sides recover: positive when the
// attacker acts first. It is measured from the contact tick as stun minus
// the attacker's remaining frames, so it differs from the recovery minus
// blockstun figure of printed frame data, which ignores the active frames
// still left after contact.
type HitEvent struct {
	Tick      int     `yaml:"tick" json:"tick"`
	Attacker  Side    `yaml:"attacker" json:"attacker"`
	Defender  Side    `yaml:"defender" json:"defender"`
	Move      string  `yaml:"move" json:"move"`
	Window    int     `yaml:"window" json:"window"`
	Outcome   Outcome `yaml:"outcome" json:"outcome"`
	Damage    int     `yaml:"damage" json:"damage"`
	Stun      int     `yaml:"stun" json:"stun"`
	Combo     int     `yaml:"combo" json:"combo"`
	Advantage int     `yaml:"advantage" json:"advantage"`
	Knockdown bool    `yaml:"knockdown,omitempty" json:"knockdown,omitempty"`
}

func (e HitEvent) String() string {
	s := fmt.Sprintf("%5d %s %s %s -> %s", e.Tick, e.Attacker, e.Move, e.Outcome, e.Defender)
	switch e.Outcome {
	case OutcomeHit, OutcomeTrade, OutcomeBlock:
		s += fmt.Sprintf(" dmg=%d stun=%d adv=%+d", e.Damage, e.Stun, e.Advantage)
		if e.Combo > 1 {
			s += fmt.Sprintf(" combo=%d", e.Combo)
		}
	case OutcomeThrow:
		s += fmt.Sprintf(" dmg=%d", e.Damage)
	}
	if e.Knockdown {
		s += " knockdown"
	}
	return s
}
