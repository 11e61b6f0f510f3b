package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/driver"
	"github.com/vovakirdan/tui-fighter/internal/fight"
	"github.com/vovakirdan/tui-fighter/internal/input"
	"github.com/vovakirdan/tui-fighter/internal/match"
	"github.com/vovakirdan/tui-fighter/internal/replay"
	"github.com/vovakirdan/tui-fighter/internal/roster"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

// latchHold is how long a direction key stays held, in ticks. Terminal
// key repeat usually fires every 30-50ms.
const latchHold = 4

const maxEventLines = 20

// Options configures a training session.
type Options struct {
	Sim     config.SimConfig
	P1, P2  string // character ids
	Dummy   string // initial dummy, one of driver.Names()
	Runtime core.RuntimeConfig
	Store   *storage.Store // replays are saved here when set
	Logger  *log.Logger
}

// switchable lets the model swap the dummy without rebuilding the runner.
type switchable struct {
	src driver.Source
}

func (s *switchable) Next(v driver.View) input.Sample {
	return s.src.Next(v)
}

// Model is the Bubble Tea model for a training session: the keyboard
// drives P1 against a dummy.
type Model struct {
	opts    Options
	runner  *driver.Runner
	latch   *driver.Latch
	dummy   *switchable
	dummies []string
	current int

	screen  *core.Screen
	keys    KeyMap
	help    help.Model
	overlay Overlay
	events  []string

	paused   bool
	quitting bool
	err      error
}

// NewModel creates a training model.
func NewModel(opts Options) (Model, error) {
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = 60
	}
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	m := Model{
		opts:    opts,
		latch:   driver.NewLatch(latchHold),
		dummy:   &switchable{},
		dummies: driver.Names(),
		screen:  core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH-1),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		overlay: Overlay{Boxes: true},
	}
	m.current = -1
	for i, name := range m.dummies {
		if opts.Dummy == "" || strings.EqualFold(name, opts.Dummy) {
			m.current = i
			break
		}
	}
	if m.current < 0 {
		return m, fmt.Errorf("unknown dummy %q (want one of %s)", opts.Dummy, strings.Join(m.dummies, ", "))
	}
	if err := m.selectDummy(m.current); err != nil {
		return m, err
	}
	if err := m.restart(); err != nil {
		return m, err
	}
	return m, nil
}

func (m *Model) selectDummy(i int) error {
	src, err := driver.ParseSource(m.dummies[i], uint64(m.opts.Runtime.Seed))
	if err != nil {
		return err
	}
	m.current = i
	m.dummy.src = src
	return nil
}

// restart saves the running session, if any, and starts a fresh match.
func (m *Model) restart() error {
	m.save()
	m.runner = nil

	p1, err := roster.Load(m.opts.P1)
	if err != nil {
		return err
	}
	p2, err := roster.Load(m.opts.P2)
	if err != nil {
		return err
	}
	sim, err := fight.NewSimulation(m.opts.Sim, p1, p2)
	if err != nil {
		return err
	}
	rec := replay.NewRecorder(match.New(sim), p1.ID, p2.ID)
	m.runner = driver.NewRunner(rec, m.latch, m.dummy, driver.Options{
		TickRate: m.opts.Runtime.TickRate,
		Logger:   m.opts.Logger,
	})
	m.latch.Release()
	return nil
}

// save stores the session replay. Sessions with no fighting are skipped.
func (m *Model) save() {
	if m.runner == nil || m.opts.Store == nil {
		return
	}
	rec := m.runner.Recorder()
	l := rec.Log()
	if l.Ticks() == 0 {
		return
	}
	id, err := m.opts.Store.SaveReplay(l, replay.Summarize(l, rec.Match().Result()))
	if err != nil {
		m.opts.Logger.Warn("could not save replay", "err", err)
		return
	}
	m.opts.Logger.Info("replay saved", "id", id, "ticks", l.Ticks())
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	k := m.keys.MapKey(msg)
	switch k.Action {
	case core.ActionQuit:
		m.save()
		m.quitting = true
		return m, tea.Quit
	case core.ActionPause:
		m.paused = !m.paused
	case core.ActionStep:
		if m.paused {
			m.step()
		}
	case core.ActionReset:
		m.err = m.restart()
		m.events = nil
	case core.ActionToggleBoxes:
		m.overlay.Boxes = !m.overlay.Boxes
	case core.ActionToggleInputs:
		m.overlay.Inputs = !m.overlay.Inputs
	case core.ActionCycleDummy:
		if err := m.selectDummy((m.current + 1) % len(m.dummies)); err != nil {
			m.err = err
		}
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	default:
		if k.Dir != 0 {
			m.latch.Direction(k.Dir)
		}
		if k.Buttons != 0 {
			m.latch.Press(k.Buttons)
		}
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused && m.err == nil {
		m.step()
	}
	return m, tickCmd(m.opts.Runtime.TickRate)
}

// step advances one tick. A finished match starts over.
func (m *Model) step() {
	if m.runner == nil {
		return
	}
	f, err := m.runner.Step()
	if err != nil {
		m.err = err
		return
	}
	for _, ev := range f.Events {
		m.events = append(m.events, ev.String())
	}
	if f.RoundEnd != nil {
		m.events = append(m.events, fmt.Sprintf("round %d: %s", f.RoundEnd.Round, f.RoundEnd.Reason))
	}
	if len(m.events) > maxEventLines {
		m.events = m.events[len(m.events)-maxEventLines:]
	}
	if f.Over {
		if err := m.restart(); err != nil {
			m.err = err
		}
	}
}

func (m *Model) render() {
	mt := m.runner.Recorder().Match()
	sim := mt.Simulation()
	snap := sim.Debug(fight.DebugOptions{Boxes: true, Inputs: 16})
	hud := HUD{
		Names:    [2]string{m.opts.P1, m.opts.P2},
		TimeLeft: mt.TimeLeft(),
		Round:    mt.Round(),
		Wins:     mt.Wins(),
		MaxMeter: sim.Config().Combat.MaxMeter,
		Dummy:    m.dummies[m.current],
		Paused:   m.paused,
		Events:   m.events,
	}
	DrawFrame(m.screen, snap, hud, sim.Config().Stage.Width, m.overlay)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	if m.runner == nil {
		return
	}
	m.render()

	dir := filepath.Join(os.Getenv("HOME"), ".fighter", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_vs_%s_%s.txt", m.opts.P1, m.opts.P2, timestamp))

	//nolint:errcheck // Best-effort save, training continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("simulation stopped: %v", m.err)) + "\n\n" +
			hintStyle.Render("press r to restart or q to quit") + "\n"
	}
	if m.opts.Runtime.TooSmall() {
		return hintStyle.Render(fmt.Sprintf("terminal too small: need %dx%d", core.MinScreenW, core.MinScreenH)) + "\n"
	}

	m.render()
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Run starts a local training session.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
