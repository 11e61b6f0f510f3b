package fight

// ScaledDamage applies combo scaling: the hit that brings the combo to
// count n deals raw times the table percentage, rounded down.
func (s *Simulation) ScaledDamage(raw, n int) int {
	return raw * s.cfg.Combat.ScalePercent(n) / 100
}

// ChipDamage is the damage a blocked attack of raw damage still deals.
func (s *Simulation) ChipDamage(raw int) int {
	return raw * s.cfg.Combat.ChipPercent / 100
}

// nextCombo returns the defender's combo count after taking a hit. wasStunned
// reports whether the defender was in hitstun before the hit.
func nextCombo(current int, wasStunned bool) int {
	if wasStunned {
		return current + 1
	}
	return 1
}

func (s *Simulation) damage(side Side, n int) {
	c := &s.chars[side]
	c.Health -= n
	if c.Health < 0 {
		c.Health = 0
	}
}
