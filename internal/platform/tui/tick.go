// Package tui is the terminal front end: a Bubble Tea training mode where
// the keyboard drives P1 against a dummy, served locally or over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks the model to advance the simulation by one tick.
type TickMsg time.Time

// tickCmd schedules the next TickMsg. Rates below one tick per second are
// raised to one.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(tickRate, 1)), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
