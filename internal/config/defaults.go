package config

import (
	_ "embed"
)

//go:embed defaults/sim.yaml
var defaultSimYAML []byte

// DefaultSimConfig returns the default simulation configuration.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Input: InputConfig{
			HistorySize:      60,
			MotionWindow:     12,
			ButtonLeniency:   4,
			ChargeFrames:     45,
			NeutralTolerance: 2,
		},
		Parry: ParryConfig{
			Window:    7,
			RedWindow: 3,
			Advantage: 8,
		},
		Combat: CombatConfig{
			ChipPercent:     10,
			Scaling:         []int{100, 90, 80, 70, 60, 50, 40, 30, 20, 10},
			MinScaling:      10,
			KnockdownFrames: 40,
			WakeupFrames:    20,
			ThrowTechPush:   30,
			MeterOnHit:      5,
			MeterOnBlock:    2,
			MeterOnWhiff:    1,
			MaxMeter:        100,
		},
		Stage: StageConfig{
			Width:         800,
			StartDistance: 200,
		},
		Match: MatchConfig{
			RoundsToWin:    2,
			RoundSeconds:   99,
			TicksPerSecond: 55,
			IntroTicks:     90,
			OutroTicks:     120,
		},
	}
}
