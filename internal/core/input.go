package core

// Action is a front-end control request, abstracted from physical key
// presses. Fighting inputs (lever and buttons) do not go through
// actions; they are latched straight into controller samples.
type Action int

const (
	ActionNone         Action = iota
	ActionPause               // P - freeze the simulation
	ActionStep                // . - advance one tick while paused
	ActionReset               // R - restart the round from neutral
	ActionToggleBoxes         // 1 - hitbox overlay
	ActionToggleInputs        // 2 - input history display
	ActionCycleDummy          // Tab - next training dummy
	ActionHelp                // ? - full key help
	ActionQuit                // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPause:
		return "Pause"
	case ActionStep:
		return "Step"
	case ActionReset:
		return "Reset"
	case ActionToggleBoxes:
		return "ToggleBoxes"
	case ActionToggleInputs:
		return "ToggleInputs"
	case ActionCycleDummy:
		return "CycleDummy"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
