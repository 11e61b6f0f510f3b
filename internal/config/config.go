// Package config provides YAML-based simulation configuration loading.
// Tunables that are not part of a character's frame data (input leniency,
// parry windows, damage scaling, stage size, round rules) live here.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-fighter/internal/input"
)

// SimConfig holds every simulation tunable.
type SimConfig struct {
	Input  InputConfig  `yaml:"input"`
	Parry  ParryConfig  `yaml:"parry"`
	Combat CombatConfig `yaml:"combat"`
	Stage  StageConfig  `yaml:"stage"`
	Match  MatchConfig  `yaml:"match"`
}

// InputConfig controls the input history and motion matcher.
type InputConfig struct {
	HistorySize      int `yaml:"history_size"`
	MotionWindow     int `yaml:"motion_window"`
	ButtonLeniency   int `yaml:"button_leniency"`
	ChargeFrames     int `yaml:"charge_frames"`
	NeutralTolerance int `yaml:"neutral_tolerance"`
}

// ParryConfig controls the parry evaluator.
type ParryConfig struct {
	Window    int `yaml:"window"`     // ticks before contact a tap may land
	RedWindow int `yaml:"red_window"` // same, while in blockstun
	Advantage int `yaml:"advantage"`  // ticks the defender may act freely after a parry
}

// CombatConfig controls damage, stun and meter bookkeeping.
type CombatConfig struct {
	ChipPercent     int   `yaml:"chip_percent"`
	Scaling         []int `yaml:"scaling"`
	MinScaling      int   `yaml:"min_scaling"`
	KnockdownFrames int   `yaml:"knockdown_frames"`
	WakeupFrames    int   `yaml:"wakeup_frames"`
	ThrowTechPush   int   `yaml:"throw_tech_push"`
	MeterOnHit      int   `yaml:"meter_on_hit"`
	MeterOnBlock    int   `yaml:"meter_on_block"`
	MeterOnWhiff    int   `yaml:"meter_on_whiff"`
	MaxMeter        int   `yaml:"max_meter"`
}

// StageConfig describes the play field in world units.
type StageConfig struct {
	Width         int `yaml:"width"`
	StartDistance int `yaml:"start_distance"`
}

// MatchConfig holds round rules. RoundSeconds of 0 disables the clock.
type MatchConfig struct {
	RoundsToWin    int  `yaml:"rounds_to_win"`
	RoundSeconds   int  `yaml:"round_seconds"`
	TicksPerSecond int  `yaml:"ticks_per_second"`
	IntroTicks     int  `yaml:"intro_ticks"`
	OutroTicks     int  `yaml:"outro_ticks"`
	RefillHealth   bool `yaml:"refill_health"`
}

// MatcherConfig converts the input section for the motion matcher.
func (c InputConfig) MatcherConfig() input.MatcherConfig {
	return input.MatcherConfig{
		Window:           c.MotionWindow,
		ButtonLeniency:   c.ButtonLeniency,
		ChargeFrames:     c.ChargeFrames,
		NeutralTolerance: c.NeutralTolerance,
	}
}

// ScalePercent returns the damage percentage applied to the hit that
// brings a combo to count n. The last table entry repeats.
func (c CombatConfig) ScalePercent(n int) int {
	if len(c.Scaling) == 0 || n < 1 {
		return 100
	}
	i := n - 1
	if i >= len(c.Scaling) {
		i = len(c.Scaling) - 1
	}
	p := c.Scaling[i]
	if p < c.MinScaling {
		p = c.MinScaling
	}
	return p
}

// Validate reports every invalid setting.
func (c SimConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Input.HistorySize >= 2, "input.history_size must be at least 2, got %d", c.Input.HistorySize)
	check(c.Input.MotionWindow > 0, "input.motion_window must be positive, got %d", c.Input.MotionWindow)
	check(c.Input.MotionWindow <= c.Input.HistorySize, "input.motion_window %d exceeds history_size %d", c.Input.MotionWindow, c.Input.HistorySize)
	check(c.Input.ButtonLeniency >= 0, "input.button_leniency must not be negative")
	check(c.Input.ChargeFrames > 0, "input.charge_frames must be positive, got %d", c.Input.ChargeFrames)
	check(c.Input.ChargeFrames < c.Input.HistorySize, "input.charge_frames %d must be below history_size %d", c.Input.ChargeFrames, c.Input.HistorySize)
	check(c.Input.NeutralTolerance >= 0, "input.neutral_tolerance must not be negative")

	check(c.Parry.Window > 0, "parry.window must be positive, got %d", c.Parry.Window)
	check(c.Parry.RedWindow > 0, "parry.red_window must be positive, got %d", c.Parry.RedWindow)
	check(c.Parry.Window < c.Input.HistorySize, "parry.window %d must be below history_size %d", c.Parry.Window, c.Input.HistorySize)
	check(c.Parry.Advantage >= 0, "parry.advantage must not be negative")

	check(c.Combat.ChipPercent >= 0 && c.Combat.ChipPercent <= 100, "combat.chip_percent must be within 0..100, got %d", c.Combat.ChipPercent)
	check(c.Combat.MinScaling >= 0 && c.Combat.MinScaling <= 100, "combat.min_scaling must be within 0..100, got %d", c.Combat.MinScaling)
	check(len(c.Combat.Scaling) > 0, "combat.scaling must not be empty")
	for i, p := range c.Combat.Scaling {
		check(p >= 0 && p <= 100, "combat.scaling[%d] must be within 0..100, got %d", i, p)
		if i > 0 {
			check(p <= c.Combat.Scaling[i-1], "combat.scaling must not increase (entry %d)", i)
		}
	}
	check(c.Combat.KnockdownFrames > 0, "combat.knockdown_frames must be positive")
	check(c.Combat.WakeupFrames > 0, "combat.wakeup_frames must be positive")
	check(c.Combat.MaxMeter >= 0, "combat.max_meter must not be negative")
	check(c.Combat.MeterOnHit >= 0 && c.Combat.MeterOnBlock >= 0 && c.Combat.MeterOnWhiff >= 0, "combat meter gains must not be negative")

	check(c.Stage.Width > 0, "stage.width must be positive, got %d", c.Stage.Width)
	check(c.Stage.StartDistance > 0 && c.Stage.StartDistance < c.Stage.Width, "stage.start_distance must be within (0, width)")

	check(c.Match.RoundsToWin > 0, "match.rounds_to_win must be positive")
	check(c.Match.RoundSeconds >= 0, "match.round_seconds must not be negative")
	check(c.Match.TicksPerSecond > 0, "match.ticks_per_second must be positive")
	check(c.Match.IntroTicks >= 0 && c.Match.OutroTicks >= 0, "match intro/outro ticks must not be negative")

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
