package fight

import "testing"

func TestScaledDamageNeverIncreases(t *testing.T) {
	sim := newDuel(t, testConfig())
	minPct := sim.Config().Combat.MinScaling
	prev := sim.ScaledDamage(100, 1)
	if prev != 100 {
		t.Fatalf("first hit scaled to %d, want full damage", prev)
	}
	for n := 2; n <= 30; n++ {
		got := sim.ScaledDamage(100, n)
		if got > prev {
			t.Errorf("hit %d deals %d, more than hit %d (%d)", n, got, n-1, prev)
		}
		if got < minPct {
			t.Errorf("hit %d deals %d, below the %d%% floor", n, got, minPct)
		}
		prev = got
	}
}

func TestChipDamage(t *testing.T) {
	sim := newDuel(t, testConfig())
	tests := []struct {
		raw, want int
	}{
		{30, 3},
		{9, 0},
		{115, 11},
		{0, 0},
	}
	for _, tt := range tests {
		if got := sim.ChipDamage(tt.raw); got != tt.want {
			t.Errorf("ChipDamage(%d) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestLinkedCombo(t *testing.T) {
	sim := newDuel(t, testConfig())
	// Jab is +4 on hit: a second jab on tick 9 connects on tick 12 while the
	// defender is still in hitstun. The third comes after recovery.
	events := play(t, sim, 34, press(map[int]string{0: "LP", 9: "LP", 30: "LP"}), hold("5"))

	if len(events) != 3 {
		t.Fatalf("events = %+v, want three hits", events)
	}
	want := []struct{ tick, combo, damage int }{
		{3, 1, 30},
		{12, 2, 27},
		{33, 1, 30},
	}
	for i, w := range want {
		ev := events[i]
		if ev.Tick != w.tick || ev.Combo != w.combo || ev.Damage != w.damage {
			t.Errorf("hit %d = tick %d combo %d damage %d, want tick %d combo %d damage %d",
				i+1, ev.Tick, ev.Combo, ev.Damage, w.tick, w.combo, w.damage)
		}
	}
	if c := sim.Character(P2); c.Health != 500-30-27-30 {
		t.Errorf("health = %d, want %d", c.Health, 500-87)
	}
}

func TestBlocksDoNotTouchCombo(t *testing.T) {
	sim := newDuel(t, testConfig())
	events := play(t, sim, 10, press(map[int]string{0: "HP"}), hold("6"))
	for _, ev := range events {
		if ev.Outcome != OutcomeBlock || ev.Combo != 0 {
			t.Errorf("unexpected event %+v", ev)
		}
	}
	if c := sim.Character(P2); c.Combo != 0 {
		t.Errorf("combo after blocking = %d, want 0", c.Combo)
	}
}

func TestKOForcesKnockdown(t *testing.T) {
	sim := newDuel(t, testConfig())
	sim.chars[P2].Health = 10
	events := play(t, sim, 4, press(map[int]string{0: "LP"}), hold("5"))
	if len(events) != 1 || !events[0].Knockdown {
		t.Fatalf("events = %+v, want a knockdown", events)
	}
	if c := sim.Character(P2); !c.KO() || c.Health != 0 || c.Phase != PhaseKnockdown {
		t.Errorf("after KO: %+v", c)
	}
}
