package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/input"
)

// KeyMap holds the training-mode bindings. It implements help.KeyMap.
type KeyMap struct {
	Left, Right, Up, Down key.Binding
	LP, MP, HP            key.Binding
	LK, MK, HK            key.Binding

	Pause, Step, Reset key.Binding
	Boxes, Inputs      key.Binding
	Dummy              key.Binding
	Help, Quit         key.Binding
}

// DefaultKeyMap returns the default bindings: WASD or arrows for the
// lever, UIO for punches and JKL for kicks.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("a", "left"), key.WithHelp("a/←", "left")),
		Right: key.NewBinding(key.WithKeys("d", "right"), key.WithHelp("d/→", "right")),
		Up:    key.NewBinding(key.WithKeys("w", "up"), key.WithHelp("w/↑", "up")),
		Down:  key.NewBinding(key.WithKeys("s", "down"), key.WithHelp("s/↓", "down")),

		LP: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "LP")),
		MP: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "MP")),
		HP: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "HP")),
		LK: key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "LK")),
		MK: key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "MK")),
		HK: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "HK")),

		Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Step:   key.NewBinding(key.WithKeys("."), key.WithHelp(".", "step")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Boxes:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "boxes")),
		Inputs: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "inputs")),
		Dummy:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "dummy")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Boxes, k.Inputs, k.Dummy, k.Pause, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.LP, k.MP, k.HP},
		{k.LK, k.MK, k.HK},
		{k.Boxes, k.Inputs, k.Dummy},
		{k.Pause, k.Step, k.Reset, k.Help, k.Quit},
	}
}

// Mapped is what one key press means: a control action, a lever
// position or buttons. At most one is set.
type Mapped struct {
	Action  core.Action
	Dir     input.Direction
	Buttons input.Buttons
}

// MapKey translates a key message. Directions are screen-relative.
func (k KeyMap) MapKey(msg tea.KeyMsg) Mapped {
	switch {
	case key.Matches(msg, k.Quit):
		return Mapped{Action: core.ActionQuit}
	case key.Matches(msg, k.Pause):
		return Mapped{Action: core.ActionPause}
	case key.Matches(msg, k.Step):
		return Mapped{Action: core.ActionStep}
	case key.Matches(msg, k.Reset):
		return Mapped{Action: core.ActionReset}
	case key.Matches(msg, k.Boxes):
		return Mapped{Action: core.ActionToggleBoxes}
	case key.Matches(msg, k.Inputs):
		return Mapped{Action: core.ActionToggleInputs}
	case key.Matches(msg, k.Dummy):
		return Mapped{Action: core.ActionCycleDummy}
	case key.Matches(msg, k.Help):
		return Mapped{Action: core.ActionHelp}

	case key.Matches(msg, k.Left):
		return Mapped{Dir: input.Back}
	case key.Matches(msg, k.Right):
		return Mapped{Dir: input.Forward}
	case key.Matches(msg, k.Up):
		return Mapped{Dir: input.Up}
	case key.Matches(msg, k.Down):
		return Mapped{Dir: input.Down}
	}

	buttons := []struct {
		b   key.Binding
		btn input.Buttons
	}{
		{k.LP, input.LP}, {k.MP, input.MP}, {k.HP, input.HP},
		{k.LK, input.LK}, {k.MK, input.MK}, {k.HK, input.HK},
	}
	for _, e := range buttons {
		if key.Matches(msg, e.b) {
			return Mapped{Buttons: e.btn}
		}
	}
	return Mapped{}
}
