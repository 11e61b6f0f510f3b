package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/fight"
	"github.com/vovakirdan/tui-fighter/internal/input"
	"github.com/vovakirdan/tui-fighter/internal/movedata"
)

const (
	hudRows     = 2
	footerRows  = 4 // event log and input history
	unitsPerRow = 20
)

// Overlay selects the optional debug layers.
type Overlay struct {
	Boxes  bool
	Inputs bool
}

// HUD is the match information drawn above the stage.
type HUD struct {
	Names    [2]string
	TimeLeft int // -1 for no clock
	Round    int
	Wins     [2]int
	MaxMeter int
	Dummy    string
	Paused   bool
	Events   []string
}

var boxColors = map[movedata.BoxKind]core.Color{
	movedata.BoxHurt:   core.ColorHurtbox,
	movedata.BoxAttack: core.ColorHitbox,
	movedata.BoxThrow:  core.ColorThrowbox,
	movedata.BoxPush:   core.ColorPushbox,
}

// DrawFrame renders one frame of the stage into s.
func DrawFrame(s *core.Screen, snap fight.DebugSnapshot, hud HUD, stageW int, ov Overlay) {
	s.Clear()
	drawHUD(s, snap, hud)

	rows := s.Height() - hudRows - footerRows
	if rows < 3 {
		return
	}
	vp := core.Viewport{Cols: s.Width(), Rows: rows - 1, WorldW: stageW, UnitsPerRow: unitsPerRow}
	floor := hudRows + rows - 1
	s.DrawHLine(0, floor, s.Width(), '▀', core.ColorGray)

	colors := [2]core.Color{core.ColorP1, core.ColorP2}
	for side := range snap.Characters {
		drawCharacter(s, vp, hudRows, snap.Characters[side], snap.Boxes[side], colors[side])
	}
	if ov.Boxes {
		for side := range snap.Boxes {
			for _, b := range snap.Boxes[side] {
				r := vp.Project(b.Rect).Offset(0, hudRows)
				s.DrawBox(r, boxColors[b.Kind])
			}
		}
	}

	y := floor + 1
	for i := max(0, len(hud.Events)-3); i < len(hud.Events); i++ {
		s.DrawText(0, y, hud.Events[i], core.ColorWhite)
		y++
	}
	if ov.Inputs {
		line := fmt.Sprintf("P1 %s   P2 %s", inputTrail(snap.Inputs[fight.P1]), inputTrail(snap.Inputs[fight.P2]))
		s.DrawText(0, s.Height()-1, line, core.ColorCyan)
	}
}

func drawHUD(s *core.Screen, snap fight.DebugSnapshot, hud HUD) {
	barW := max(4, (s.Width()-16)/2-2)
	p1, p2 := snap.Characters[fight.P1], snap.Characters[fight.P2]

	s.DrawText(0, 0, bar(p1.Health, p1.MaxHealth, barW, false), core.ColorBrightGreen)
	s.DrawTextRight(0, bar(p2.Health, p2.MaxHealth, barW, true), core.ColorBrightGreen)

	clock := "∞"
	if hud.TimeLeft >= 0 {
		clock = fmt.Sprintf("%02d", hud.TimeLeft)
	}
	s.DrawTextCentered(0, clock, core.ColorBrightYellow)

	left := fmt.Sprintf("%s %s", strings.ToUpper(hud.Names[0]), bar(p1.Meter, hud.MaxMeter, barW/2, false))
	right := fmt.Sprintf("%s %s", bar(p2.Meter, hud.MaxMeter, barW/2, true), strings.ToUpper(hud.Names[1]))
	s.DrawText(0, 1, left, core.ColorP1)
	s.DrawTextRight(1, right, core.ColorP2)

	mid := fmt.Sprintf("R%d %d-%d %s", hud.Round, hud.Wins[0], hud.Wins[1], hud.Dummy)
	if hud.Paused {
		mid = "PAUSED"
	}
	s.DrawTextCentered(1, mid, core.ColorGray)
}

func drawCharacter(s *core.Screen, vp core.Viewport, top int, c fight.Character, boxes fight.BoxSet, color core.Color) {
	hurt := boxes.Of(movedata.BoxHurt)
	if len(hurt) == 0 {
		return
	}
	body := vp.Project(hurt[0].Rect).Offset(0, top)
	fill := '█'
	if c.Phase == fight.PhaseHitstun || c.Phase == fight.PhaseKnockdown {
		fill = '▓'
	}
	s.FillRect(body, fill, color)

	eye := body.X + body.W - 1
	if c.Facing < 0 {
		eye = body.X
	}
	s.SetCell(eye, body.Y, core.Cell{Rune: '•', Color: core.ColorBrightWhite})

	label := c.Phase.String()
	if c.Phase == fight.PhaseAttacking {
		label = c.Move
	}
	if c.Combo > 1 {
		label += fmt.Sprintf(" x%d", c.Combo)
	}
	s.DrawText(body.X, body.Y-1, label, color)
}

// bar draws a filled gauge of width w, right-aligned when mirrored.
func bar(v, maxV, w int, mirrored bool) string {
	if w <= 0 {
		return ""
	}
	n := 0
	if maxV > 0 {
		n = core.Clamp(v*w/maxV, 0, w)
	}
	full, empty := strings.Repeat("█", n), strings.Repeat("░", w-n)
	if mirrored {
		return empty + full
	}
	return full + empty
}

func inputTrail(samples []input.Sample) string {
	var parts []string
	for i, smp := range samples {
		if i > 0 && smp == samples[i-1] {
			continue
		}
		parts = append(parts, smp.String())
	}
	return strings.Join(parts, " ")
}
