package movedata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/input"
)

func testdataPath(name string) string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", name)
}

// validationCodes flattens joined and wrapped errors into their codes.
func validationCodes(err error) []string {
	var codes []string
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if ve, ok := e.(ValidationError); ok {
			codes = append(codes, ve.Code)
			return
		}
		if multi, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range multi.Unwrap() {
				walk(inner)
			}
			return
		}
		walk(errors.Unwrap(e))
	}
	walk(err)
	return codes
}

func hasCode(err error, code string) bool {
	for _, c := range validationCodes(err) {
		if c == code {
			return true
		}
	}
	return false
}

func jab() Move {
	return Move{
		ID:       "jab",
		Kind:     KindNormal,
		Trigger:  Trigger{Notation: "LP", Buttons: input.LP, Stance: StanceStanding},
		Startup:  3,
		Active:   3,
		Recovery: 3,
		Boxes: []BoxEntry{{
			Frames: FrameRange{3, 6}, Kind: BoxAttack, Rect: core.NewRect(10, -80, 60, 20),
			Guard: GuardHigh, Damage: 30, Hitstun: 10, Blockstun: 7,
		}},
	}
}

func baseCharacter(moves ...Move) Character {
	return Character{
		ID:            "test",
		Health:        100,
		StandHurtbox:  core.NewRect(-30, -100, 60, 100),
		CrouchHurtbox: core.NewRect(-30, -60, 60, 60),
		Pushbox:       core.NewRect(-20, -90, 40, 90),
		Moves:         moves,
	}
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile(testdataPath("sample.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if c.ID != "sample" || c.Health != 500 {
		t.Errorf("character = %q/%d, expected sample/500", c.ID, c.Health)
	}

	m, ok := c.Move("jab")
	if !ok {
		t.Fatal("jab not found")
	}
	if m.Total() != 9 || m.ActiveRange() != (FrameRange{3, 6}) {
		t.Errorf("jab total %d active %v", m.Total(), m.ActiveRange())
	}
	if m.Name != "jab" {
		t.Errorf("name should default to id, got %q", m.Name)
	}

	up, _ := c.Move("uppercut")
	if up.HitWindows() != 2 {
		t.Errorf("uppercut has %d hit windows, expected 2", up.HitWindows())
	}
	if up.Boxes[0].Window != up.Boxes[1].Window {
		t.Error("boxes sharing a frame range should share a hit window")
	}
	if !up.AirborneAt(10) || up.AirborneAt(2) {
		t.Error("airborne range not honoured")
	}
	if strike, throw := up.InvincibleAt(4); !strike || !throw {
		t.Error("uppercut should be fully invincible on frame 4")
	}

	grab, _ := c.Move("grab")
	if grab.Boxes[0].Guard != GuardUnblockable || !grab.Boxes[0].Knockdown {
		t.Error("throw boxes should be unblockable and knock down")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(testdataPath("missing.yaml"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	data, err := os.ReadFile(testdataPath("sample.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	bad := strings.Replace(string(data), "health: 500", "health: 500\nmana: 3", 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}

func TestBuildRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Character)
		code   string
	}{
		{
			name:   "attack box after active window",
			mutate: func(c *Character) { c.Moves[0].Boxes[0].Frames = FrameRange{5, 8} },
			code:   CodeActiveWindow,
		},
		{
			name:   "box beyond total frames",
			mutate: func(c *Character) { c.Moves[0].Boxes[0].Frames = FrameRange{3, 12} },
			code:   CodeBoxRange,
		},
		{
			name: "invincibility during startup",
			mutate: func(c *Character) {
				c.Moves[0].Invincible = []Invincibility{{Frames: FrameRange{1, 4}, Strike: true}}
			},
			code: CodeInvincibility,
		},
		{
			name: "invincibility past total frames",
			mutate: func(c *Character) {
				c.Moves[0].Invincible = []Invincibility{{Frames: FrameRange{3, 20}, Strike: true}}
			},
			code: CodeInvincibility,
		},
		{
			name: "overlapping multi-hit windows",
			mutate: func(c *Character) {
				m := &c.Moves[0]
				m.MultiHit = true
				second := m.Boxes[0]
				second.Frames = FrameRange{4, 6}
				m.Boxes = append(m.Boxes, second)
			},
			code: CodeMultiHit,
		},
		{
			name:   "duplicate move id",
			mutate: func(c *Character) { c.Moves = append(c.Moves, c.Moves[0]) },
			code:   CodeDuplicateMove,
		},
		{
			name: "dangling cancel target",
			mutate: func(c *Character) {
				c.Moves[0].Cancels = []CancelWindow{{Frames: FrameRange{3, 6}, Moves: []string{"fireball"}}}
			},
			code: CodeDanglingMove,
		},
		{
			name:   "unknown motion",
			mutate: func(c *Character) { c.Moves[0].Trigger.Motion = "360" },
			code:   CodeTrigger,
		},
		{
			name:   "no active frames",
			mutate: func(c *Character) { c.Moves[0].Active = 0 },
			code:   CodeFrames,
		},
		{
			name:   "no health",
			mutate: func(c *Character) { c.Health = 0 },
			code:   CodeCharacter,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := baseCharacter(jab())
			tc.mutate(&c)
			_, err := Build(c, nil)
			if err == nil {
				t.Fatal("expected Build to fail")
			}
			if !hasCode(err, tc.code) {
				t.Errorf("error codes %v do not include %s (%v)", validationCodes(err), tc.code, err)
			}
		})
	}
}

// rapid returns a multi-hit move with n one-frame hit windows.
func rapid(n int) Move {
	m := jab()
	m.MultiHit = true
	m.Active = n
	box := m.Boxes[0]
	m.Boxes = nil
	for i := 0; i < n; i++ {
		box.Frames = FrameRange{3 + i, 4 + i}
		m.Boxes = append(m.Boxes, box)
	}
	return m
}

func TestHitWindowLimit(t *testing.T) {
	tests := []struct {
		windows int
		ok      bool
	}{
		{1, true},
		{MaxHitWindows, true},
		{MaxHitWindows + 1, false},
		{100, false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.windows), func(t *testing.T) {
			c, err := Build(baseCharacter(rapid(tc.windows)), nil)
			if !tc.ok {
				if !hasCode(err, CodeMultiHit) {
					t.Errorf("error codes %v do not include %s", validationCodes(err), CodeMultiHit)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if got := c.Moves[0].HitWindows(); got != tc.windows {
				t.Errorf("HitWindows = %d, want %d", got, tc.windows)
			}
		})
	}
}

func TestBuildReportsEveryProblem(t *testing.T) {
	c := baseCharacter(jab())
	c.Health = 0
	c.Moves[0].Boxes[0].Frames = FrameRange{6, 9}

	_, err := Build(c, nil)
	if !hasCode(err, CodeCharacter) || !hasCode(err, CodeActiveWindow) {
		t.Errorf("expected both problems reported, got %v", validationCodes(err))
	}
}

func TestValidationErrorMessage(t *testing.T) {
	e := ValidationError{Code: CodeFrames, Move: "jab", Message: "bad"}
	if e.Error() != "[FRAMES] jab: bad" {
		t.Errorf("Error() = %q", e.Error())
	}
}

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		in   string
		want Trigger
	}{
		{"LP", Trigger{Buttons: input.LP, Stance: StanceStanding}},
		{"2MK", Trigger{Buttons: input.MK, Stance: StanceCrouching}},
		{"6MP", Trigger{Buttons: input.MP, Stance: StanceStanding, Lever: input.ZoneForward}},
		{"LP+LK", Trigger{Buttons: input.LP | input.LK, RequireAll: true, Stance: StanceStanding}},
		{"qcf+P", Trigger{Motion: input.MotionQCF, Buttons: input.Punches, Stance: StanceAny}},
		{"charge_back+K", Trigger{Motion: input.MotionChargeBack, Buttons: input.Kicks, Stance: StanceAny}},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTrigger(tc.in)
			if err != nil {
				t.Fatalf("ParseTrigger(%q) failed: %v", tc.in, err)
			}
			tc.want.Notation = tc.in
			if got != tc.want {
				t.Errorf("ParseTrigger(%q) = %+v, expected %+v", tc.in, got, tc.want)
			}
		})
	}

	for _, bad := range []string{"", "qcf", "2", "LP+XX"} {
		if _, err := ParseTrigger(bad); err == nil {
			t.Errorf("ParseTrigger(%q) should fail", bad)
		}
	}
}

func TestResolve(t *testing.T) {
	c, err := LoadFile(testdataPath("sample.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		cmd       input.Command
		crouching bool
		want      string
	}{
		{
			name: "plain button",
			cmd:  input.Command{Kind: input.CommandButton, Buttons: input.LP, Dir: input.Neutral},
			want: "jab",
		},
		{
			name: "motion beats button",
			cmd: input.Command{Kind: input.CommandMotion, Motion: input.MotionDP,
				Motions: []input.MotionID{input.MotionDP}, Buttons: input.LP, Dir: input.DownForward},
			crouching: true,
			want:      "uppercut",
		},
		{
			name: "unused motion falls back to button",
			cmd: input.Command{Kind: input.CommandMotion, Motion: input.MotionQCF,
				Motions: []input.MotionID{input.MotionQCF}, Buttons: input.LP, Dir: input.Forward},
			want: "jab",
		},
		{
			name:      "crouching stance",
			cmd:       input.Command{Kind: input.CommandButton, Buttons: input.LK, Dir: input.Down},
			crouching: true,
			want:      "low_kick",
		},
		{
			name: "both buttons",
			cmd:  input.Command{Kind: input.CommandButton, Buttons: input.LP | input.LK, Dir: input.Neutral},
			want: "grab",
		},
		{
			name: "second button joins a held one",
			cmd:  input.Command{Kind: input.CommandButton, Buttons: input.LK, Held: input.LP | input.LK, Dir: input.Neutral},
			want: "grab",
		},
		{
			name: "standing kick has no move",
			cmd:  input.Command{Kind: input.CommandButton, Buttons: input.LK, Dir: input.Neutral},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, ok := c.Resolve(tc.cmd, tc.crouching, 0)
			got := ""
			if ok {
				got = m.ID
			}
			if got != tc.want {
				t.Errorf("Resolve() = %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestResolveMeterCost(t *testing.T) {
	super := jab()
	super.ID = "super"
	super.Kind = KindSuper
	super.MeterCost = 100
	super.Trigger = Trigger{Motion: input.MotionQCF, Buttons: input.Punches}

	c, err := Build(baseCharacter(super, jab()), nil)
	if err != nil {
		t.Fatal(err)
	}
	cmd := input.Command{Kind: input.CommandMotion, Motion: input.MotionQCF,
		Motions: []input.MotionID{input.MotionQCF}, Buttons: input.LP}

	if m, _ := c.Resolve(cmd, false, 99); m == nil || m.ID != "jab" {
		t.Errorf("without meter expected jab, got %v", m)
	}
	if m, _ := c.Resolve(cmd, false, 100); m == nil || m.ID != "super" {
		t.Errorf("with meter expected super, got %v", m)
	}
}

func TestCanCancelInto(t *testing.T) {
	c, err := LoadFile(testdataPath("sample.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	j, _ := c.Move("jab")
	up, _ := c.Move("uppercut")
	low, _ := c.Move("low_kick")

	if !j.CanCancelInto(4, up) {
		t.Error("jab should cancel into a special inside its window")
	}
	if j.CanCancelInto(7, up) {
		t.Error("jab should not cancel outside its window")
	}
	if j.CanCancelInto(4, low) {
		t.Error("jab should not cancel into a normal")
	}
	if j.CanCancelInto(4, j) {
		t.Error("a move never cancels into itself")
	}
}

func TestAdvantage(t *testing.T) {
	m := jab()
	// Contact on the first active frame leaves 6 frames of the move.
	if got := m.Advantage(3, 7); got != 1 {
		t.Errorf("Advantage(3, 7) = %d, expected 1", got)
	}
	if got := m.Advantage(5, 2); got != -2 {
		t.Errorf("Advantage(5, 2) = %d, expected -2", got)
	}
}
