package fight

import (
	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/movedata"
)

// Box is one world-space box live on the current tick.
type Box struct {
	Kind   movedata.BoxKind
	Rect   core.Rect
	Window int // hit window, attack and throw boxes only
	Entry  int // index into the move's box entries, -1 for body boxes
}

// BoxSet is every box one character presents on a tick, rebuilt from the
// move and frame index each tick.
type BoxSet []Box

// Of returns the boxes of one kind, in declaration order.
func (bs BoxSet) Of(kind movedata.BoxKind) []Box {
	var out []Box
	for _, b := range bs {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Pushbox returns the character's pushbox.
func (bs BoxSet) Pushbox() (core.Rect, bool) {
	for _, b := range bs {
		if b.Kind == movedata.BoxPush {
			return b.Rect, true
		}
	}
	return core.Rect{}, false
}

// deriveBoxes builds the box set of c. mv is nil unless c is attacking.
func deriveBoxes(c *Character, def *movedata.Character, mv *movedata.Move) BoxSet {
	var set BoxSet
	place := func(kind movedata.BoxKind, r core.Rect, window, entry int) {
		set = append(set, Box{Kind: kind, Rect: r.Place(c.X, c.Y, c.Facing), Window: window, Entry: entry})
	}

	body := def.StandHurtbox
	if c.Crouching {
		body = def.CrouchHurtbox
	}
	place(movedata.BoxHurt, body, 0, -1)

	push := def.Pushbox
	customPush := false
	if mv != nil {
		for i, e := range mv.Boxes {
			if !e.Frames.Contains(c.Frame) {
				continue
			}
			switch e.Kind {
			case movedata.BoxPush:
				if !customPush {
					push = e.Rect
					customPush = true
				}
			default:
				place(e.Kind, e.Rect, e.Window, i)
			}
		}
	}
	place(movedata.BoxPush, push, 0, -1)
	return set
}
