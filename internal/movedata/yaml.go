package movedata

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"gopkg.in/yaml.v3"
)

// YAMLCharacter is the file layout of a move table.
type YAMLCharacter struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Health  int         `yaml:"health"`
	Walk    YAMLWalk    `yaml:"walk"`
	Hurtbox YAMLHurtbox `yaml:"hurtbox"`
	Pushbox core.Rect   `yaml:"pushbox"`
	Moves   []YAMLMove  `yaml:"moves"`
}

// YAMLWalk holds walk speeds in world units per tick.
type YAMLWalk struct {
	Forward int `yaml:"forward"`
	Back    int `yaml:"back"`
}

// YAMLHurtbox holds the body boxes used outside of move-specific boxes.
type YAMLHurtbox struct {
	Stand  core.Rect `yaml:"stand"`
	Crouch core.Rect `yaml:"crouch"`
}

// YAMLMove is one move entry.
type YAMLMove struct {
	ID         string              `yaml:"id"`
	Name       string              `yaml:"name,omitempty"`
	Kind       string              `yaml:"kind,omitempty"`
	Input      string              `yaml:"input"`
	Frames     YAMLFrames          `yaml:"frames"`
	Meter      int                 `yaml:"meter,omitempty"`
	MultiHit   bool                `yaml:"multi_hit,omitempty"`
	Boxes      []YAMLBox           `yaml:"boxes,omitempty"`
	Invincible []YAMLInvincibility `yaml:"invincible,omitempty"`
	Airborne   []FrameRange        `yaml:"airborne,omitempty"`
	Cancels    []YAMLCancel        `yaml:"cancels,omitempty"`
}

// YAMLFrames is the startup/active/recovery triple.
type YAMLFrames struct {
	Startup  int `yaml:"startup"`
	Active   int `yaml:"active"`
	Recovery int `yaml:"recovery"`
}

// YAMLBox is one timeline box.
type YAMLBox struct {
	Kind      string     `yaml:"kind"`
	Frames    FrameRange `yaml:"frames"`
	Box       core.Rect  `yaml:"box"`
	Guard     string     `yaml:"guard,omitempty"`
	Damage    int        `yaml:"damage,omitempty"`
	Hitstun   int        `yaml:"hitstun,omitempty"`
	Blockstun int        `yaml:"blockstun,omitempty"`
	Pushback  int        `yaml:"pushback,omitempty"`
	Knockdown bool       `yaml:"knockdown,omitempty"`
}

// YAMLInvincibility is one invincibility window.
type YAMLInvincibility struct {
	Frames FrameRange `yaml:"frames"`
	Strike bool       `yaml:"strike"`
	Throw  bool       `yaml:"throw"`
}

// YAMLCancel is one cancel window; Into lists move kinds or move ids.
type YAMLCancel struct {
	Frames FrameRange `yaml:"frames"`
	Into   []string   `yaml:"into,omitempty"`
}

// UnmarshalYAML reads a frame range written as [start, end].
func (r *FrameRange) UnmarshalYAML(value *yaml.Node) error {
	var pair []int
	if err := value.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("line %d: frame range needs [start, end], got %d values", value.Line, len(pair))
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// MarshalYAML writes a frame range as [start, end].
func (r FrameRange) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []int{r.Start, r.End} {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v)})
	}
	return n, nil
}

// Parse decodes and validates a YAML move table. Unknown keys are
// rejected.
func Parse(data []byte) (*Character, error) {
	var yc YAMLCharacter
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&yc); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	c, err := yc.toCharacter()
	if err != nil {
		return nil, err
	}
	return Build(c, nil)
}

// LoadFile reads and validates a move table file.
func LoadFile(path string) (*Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return c, nil
}

func (yc YAMLCharacter) toCharacter() (Character, error) {
	c := Character{
		ID:            yc.ID,
		Name:          yc.Name,
		Health:        yc.Health,
		WalkForward:   yc.Walk.Forward,
		WalkBack:      yc.Walk.Back,
		StandHurtbox:  yc.Hurtbox.Stand,
		CrouchHurtbox: yc.Hurtbox.Crouch,
		Pushbox:       yc.Pushbox,
	}
	if c.Name == "" {
		c.Name = c.ID
	}

	var errs []error
	for _, ym := range yc.Moves {
		m, moveErrs := ym.toMove()
		errs = append(errs, moveErrs...)
		c.Moves = append(c.Moves, m)
	}
	if len(errs) > 0 {
		return c, errors.Join(errs...)
	}
	return c, nil
}

func (ym YAMLMove) toMove() (Move, []error) {
	var errs []error
	bad := func(code string, err error) {
		errs = append(errs, ValidationError{Code: code, Move: ym.ID, Message: err.Error()})
	}

	m := Move{
		ID:        ym.ID,
		Name:      ym.Name,
		Kind:      KindNormal,
		Startup:   ym.Frames.Startup,
		Active:    ym.Frames.Active,
		Recovery:  ym.Frames.Recovery,
		MeterCost: ym.Meter,
		MultiHit:  ym.MultiHit,
		Airborne:  ym.Airborne,
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	if ym.Kind != "" {
		k, err := ParseMoveKind(ym.Kind)
		if err != nil {
			bad(CodeTrigger, err)
		}
		m.Kind = k
	}

	t, err := ParseTrigger(ym.Input)
	if err != nil {
		bad(CodeTrigger, err)
	}
	m.Trigger = t

	for _, yb := range ym.Boxes {
		kind, err := ParseBoxKind(yb.Kind)
		if err != nil {
			bad(CodeBoxRange, err)
			continue
		}
		guard := GuardHigh
		if yb.Guard != "" {
			if guard, err = ParseGuardType(yb.Guard); err != nil {
				bad(CodeBoxRange, err)
				continue
			}
		}
		if kind == BoxThrow {
			guard = GuardUnblockable
		}
		m.Boxes = append(m.Boxes, BoxEntry{
			Frames:    yb.Frames,
			Kind:      kind,
			Rect:      yb.Box,
			Guard:     guard,
			Damage:    yb.Damage,
			Hitstun:   yb.Hitstun,
			Blockstun: yb.Blockstun,
			Pushback:  yb.Pushback,
			Knockdown: yb.Knockdown || kind == BoxThrow,
		})
	}

	for _, yi := range ym.Invincible {
		m.Invincible = append(m.Invincible, Invincibility{Frames: yi.Frames, Strike: yi.Strike, Throw: yi.Throw})
	}

	for _, yc := range ym.Cancels {
		cw := CancelWindow{Frames: yc.Frames}
		for _, target := range yc.Into {
			if k, err := ParseMoveKind(target); err == nil {
				cw.Kinds = append(cw.Kinds, k)
			} else {
				cw.Moves = append(cw.Moves, target)
			}
		}
		m.Cancels = append(m.Cancels, cw)
	}

	return m, errs
}
