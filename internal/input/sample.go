// Package input records per-tick controller samples and recognises
// directional motions and charge inputs in them.
//
// Directions use numpad notation: 5 is neutral, 6 is forward, 4 is back,
// 2 is down, 8 is up and the corners are the diagonals. Samples fed to a
// History are expected to be facing-relative; Sample.Relative converts a
// screen-relative sample.
package input

import (
	"fmt"
	"strings"
)

// Direction is a 9-way lever position in numpad notation.
type Direction uint8

const (
	DownBack    Direction = 1
	Down        Direction = 2
	DownForward Direction = 3
	Back        Direction = 4
	Neutral     Direction = 5
	Forward     Direction = 6
	UpBack      Direction = 7
	Up          Direction = 8
	UpForward   Direction = 9
)

// Normalize maps out-of-range lever values to Neutral.
func (d Direction) Normalize() Direction {
	if d < DownBack || d > UpForward {
		return Neutral
	}
	return d
}

// Mirror swaps the horizontal component (4<->6, 1<->3, 7<->9).
func (d Direction) Mirror() Direction {
	switch d.Normalize() {
	case DownBack:
		return DownForward
	case DownForward:
		return DownBack
	case Back:
		return Forward
	case Forward:
		return Back
	case UpBack:
		return UpForward
	case UpForward:
		return UpBack
	default:
		return d.Normalize()
	}
}

// IsBack reports whether the lever points away (1, 4, 7).
func (d Direction) IsBack() bool {
	return d == DownBack || d == Back || d == UpBack
}

// IsForward reports whether the lever points toward the opponent (3, 6, 9).
func (d Direction) IsForward() bool {
	return d == DownForward || d == Forward || d == UpForward
}

// IsDown reports whether the lever points down (1, 2, 3).
func (d Direction) IsDown() bool {
	return d == DownBack || d == Down || d == DownForward
}

// IsUp reports whether the lever points up (7, 8, 9).
func (d Direction) IsUp() bool {
	return d == UpBack || d == Up || d == UpForward
}

func (d Direction) String() string {
	return fmt.Sprintf("%d", uint8(d.Normalize()))
}

// ParseDirection parses a single numpad digit.
func ParseDirection(s string) (Direction, error) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return Neutral, fmt.Errorf("input: invalid direction %q", s)
	}
	return Direction(s[0] - '0'), nil
}

// Buttons is a bitmask of attack buttons.
type Buttons uint8

const (
	LP Buttons = 1 << iota
	MP
	HP
	LK
	MK
	HK
)

const (
	Punches    = LP | MP | HP
	Kicks      = LK | MK | HK
	AllButtons = Punches | Kicks
)

var buttonNames = []struct {
	b    Buttons
	name string
}{
	{LP, "LP"}, {MP, "MP"}, {HP, "HP"},
	{LK, "LK"}, {MK, "MK"}, {HK, "HK"},
}

// Has reports whether every button in other is set.
func (b Buttons) Has(other Buttons) bool {
	return other != 0 && b&other == other
}

// Any reports whether at least one button in other is set.
func (b Buttons) Any(other Buttons) bool {
	return b&other != 0
}

// Count returns the number of buttons set.
func (b Buttons) Count() int {
	n := 0
	for v := b & AllButtons; v != 0; v &= v - 1 {
		n++
	}
	return n
}

func (b Buttons) String() string {
	if b&AllButtons == 0 {
		return "-"
	}
	var parts []string
	for _, bn := range buttonNames {
		if b&bn.b != 0 {
			parts = append(parts, bn.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseButtons parses names such as "LP", "LP+LK", "P" (any punch) or
// "K" (any kick).
func ParseButtons(s string) (Buttons, error) {
	var out Buttons
	for _, part := range strings.Split(s, "+") {
		part = strings.ToUpper(strings.TrimSpace(part))
		switch part {
		case "P":
			out |= Punches
			continue
		case "K":
			out |= Kicks
			continue
		}
		found := false
		for _, bn := range buttonNames {
			if bn.name == part {
				out |= bn.b
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("input: unknown button %q", part)
		}
	}
	return out, nil
}

// Sample is one tick of controller state: a lever position plus the
// buttons currently held.
type Sample struct {
	Dir     Direction `yaml:"dir" json:"dir"`
	Buttons Buttons   `yaml:"buttons" json:"buttons"`
}

// Idle is the sample of an untouched controller.
var Idle = Sample{Dir: Neutral}

// Relative converts a screen-relative sample (6 = right) into the frame of
// a character facing the given way (+1 right, -1 left). Invalid lever
// values become neutral and unknown button bits are dropped.
func (s Sample) Relative(facing int) Sample {
	out := Sample{Dir: s.Dir.Normalize(), Buttons: s.Buttons & AllButtons}
	if facing < 0 {
		out.Dir = out.Dir.Mirror()
	}
	return out
}

func (s Sample) String() string {
	return s.Dir.String() + s.Buttons.String()
}

// ParseSample parses the String form of a sample: a direction digit
// followed by buttons, e.g. "5-", "2LK" or "6LP+LK".
func ParseSample(s string) (Sample, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Idle, fmt.Errorf("input: empty sample")
	}
	d, err := ParseDirection(s[:1])
	if err != nil {
		return Idle, err
	}
	out := Sample{Dir: d}
	if rest := s[1:]; rest != "" && rest != "-" {
		if out.Buttons, err = ParseButtons(rest); err != nil {
			return Idle, err
		}
	}
	return out, nil
}

func (s Sample) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Sample) UnmarshalText(text []byte) error {
	v, err := ParseSample(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
