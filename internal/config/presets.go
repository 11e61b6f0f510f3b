package config

import (
	"fmt"
	"strings"
)

// Preset represents a named rule set.
type Preset string

const (
	PresetArcade   Preset = "arcade"
	PresetTraining Preset = "training"
	PresetVersus   Preset = "versus"
)

// Presets lists the known presets.
func Presets() []Preset {
	return []Preset{PresetArcade, PresetTraining, PresetVersus}
}

// ParsePreset parses a preset name.
func ParsePreset(s string) (Preset, error) {
	for _, p := range Presets() {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q (want arcade, training or versus)", s)
}

// ApplyPreset modifies the config based on a preset.
func ApplyPreset(cfg *SimConfig, preset Preset) {
	switch preset {
	case PresetTraining:
		// No clock, no intro, health and meter refill between exchanges.
		cfg.Match.RoundSeconds = 0
		cfg.Match.IntroTicks = 0
		cfg.Match.OutroTicks = 30
		cfg.Match.RefillHealth = true
	case PresetVersus:
		cfg.Match.RoundsToWin = 3
	}
}
