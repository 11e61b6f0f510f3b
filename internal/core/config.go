package core

// RuntimeConfig describes the terminal a front-end renders into.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // Seed for random training dummies
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Smallest terminal the stage can be drawn in.
const (
	MinScreenW = 60
	MinScreenH = 16
)

// TooSmall reports whether the configured terminal cannot fit the stage.
func (c RuntimeConfig) TooSmall() bool {
	return c.ScreenW < MinScreenW || c.ScreenH < MinScreenH
}
