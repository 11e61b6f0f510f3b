package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/fight"
	"github.com/vovakirdan/tui-fighter/internal/input"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

func trainingOptions() Options {
	sim := config.DefaultSimConfig()
	config.ApplyPreset(&sim, config.PresetTraining)
	return Options{
		Sim:     sim,
		P1:      "ryu",
		P2:      "ken",
		Dummy:   "block",
		Runtime: core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60, Seed: 1},
		Logger:  log.New(io.Discard),
	}
}

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	return m
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func simTick(m Model) int {
	return m.runner.Recorder().Match().Simulation().Tick()
}

func TestModelPauseAndStep(t *testing.T) {
	m := newModel(t, trainingOptions())

	m = send(t, m, TickMsg{}, TickMsg{})
	if got := simTick(m); got != 2 {
		t.Fatalf("tick = %d after two ticks, want 2", got)
	}

	m = send(t, m, runes("p"), TickMsg{}, TickMsg{})
	if got := simTick(m); got != 2 {
		t.Errorf("tick = %d while paused, want 2", got)
	}

	m = send(t, m, runes("."))
	if got := simTick(m); got != 3 {
		t.Errorf("tick = %d after a single step, want 3", got)
	}

	m = send(t, m, runes("p"), TickMsg{})
	if got := simTick(m); got != 4 {
		t.Errorf("tick = %d after resuming, want 4", got)
	}
}

func TestModelLatchesKeys(t *testing.T) {
	m := newModel(t, trainingOptions())
	m = send(t, m, runes("u"), runes("s"), TickMsg{})

	snap := m.runner.Recorder().Match().Simulation().Debug(fight.DebugOptions{Inputs: 1})
	got := snap.Inputs[fight.P1][0]
	if got.Buttons != input.LP || got.Dir != input.Down {
		t.Errorf("P1 sample = %v, want 2LP", got)
	}

	m = send(t, m, TickMsg{})
	snap = m.runner.Recorder().Match().Simulation().Debug(fight.DebugOptions{Inputs: 1})
	if got := snap.Inputs[fight.P1][0]; got.Buttons != 0 {
		t.Errorf("buttons held for a second tick: %v", got)
	}
}

func TestModelCycleDummy(t *testing.T) {
	m := newModel(t, trainingOptions())
	if m.dummies[m.current] != "block" {
		t.Fatalf("initial dummy = %q, want block", m.dummies[m.current])
	}

	seen := map[string]bool{}
	for range m.dummies {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
		seen[m.dummies[m.current]] = true
	}
	if len(seen) != len(m.dummies) || m.dummies[m.current] != "block" {
		t.Errorf("cycling visited %v and ended on %q", seen, m.dummies[m.current])
	}
}

func TestModelResetRestartsMatch(t *testing.T) {
	m := newModel(t, trainingOptions())
	m = send(t, m, TickMsg{}, TickMsg{}, TickMsg{}, runes("r"))
	if got := simTick(m); got != 0 {
		t.Errorf("tick = %d after reset, want 0", got)
	}
}

func TestModelSavesReplayOnQuit(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	opts := trainingOptions()
	opts.Store = store
	m := newModel(t, opts)
	for range 10 {
		m = send(t, m, TickMsg{})
	}
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if v := next.View(); v != "" {
		t.Errorf("view after quit = %q, want empty", v)
	}

	entries, err := store.ListReplays(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("stored %d replays, want 1", len(entries))
	}
	if e := entries[0]; e.P1 != "ryu" || e.P2 != "ken" || e.Ticks != 10 {
		t.Errorf("stored %+v", e)
	}
}

func TestModelView(t *testing.T) {
	m := newModel(t, trainingOptions())
	m = send(t, m, TickMsg{})
	if v := m.View(); !strings.Contains(v, "RYU") || !strings.Contains(v, "KEN") {
		t.Errorf("view does not name both characters:\n%s", v)
	}

	m = send(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	if v := m.View(); !strings.Contains(v, "too small") {
		t.Errorf("small terminal view = %q", v)
	}
}
