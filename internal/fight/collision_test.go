package fight

import (
	"reflect"
	"testing"
)

func TestCleanHit(t *testing.T) {
	sim := newDuel(t, testConfig())
	events := play(t, sim, 4, press(map[int]string{0: "LP"}), hold("5"))

	want := []HitEvent{{
		Tick: 3, Attacker: P1, Defender: P2, Move: "jab",
		Outcome: OutcomeHit, Damage: 30, Stun: 10, Combo: 1, Advantage: 4,
	}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %+v\nwant %+v", events, want)
	}
	p2 := sim.Character(P2)
	if p2.Phase != PhaseHitstun || p2.Health != 470 || p2.Combo != 1 {
		t.Errorf("defender after hit: %+v", p2)
	}

	// Advantage +4: the attacker recovers at tick 9, the defender at 13.
	for sim.Tick() <= 13 {
		tick := sim.Tick()
		play(t, sim, 1, hold("5"), hold("5"))
		p1, p2 := sim.Character(P1), sim.Character(P2)
		switch tick {
		case 8:
			if p1.Phase != PhaseAttacking {
				t.Errorf("tick 8: attacker should still be recovering, got %v", p1.Phase)
			}
		case 9:
			if p1.Phase != PhaseNeutral {
				t.Errorf("tick 9: attacker should be actionable, got %v", p1.Phase)
			}
		case 12:
			if p2.Phase != PhaseHitstun {
				t.Errorf("tick 12: defender should still be in hitstun, got %v", p2.Phase)
			}
		case 13:
			if p2.Phase != PhaseNeutral || p2.Combo != 0 {
				t.Errorf("tick 13: defender should be neutral with combo reset, got %v combo %d", p2.Phase, p2.Combo)
			}
		}
	}
}

func TestBlockedHit(t *testing.T) {
	sim := newDuel(t, testConfig())
	// P2 faces left: holding right is holding back.
	events := play(t, sim, 4, press(map[int]string{0: "LP"}), hold("6"))

	want := []HitEvent{{
		Tick: 3, Attacker: P1, Defender: P2, Move: "jab",
		Outcome: OutcomeBlock, Damage: 3, Stun: 7, Combo: 0, Advantage: 1,
	}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %+v\nwant %+v", events, want)
	}
	p1, p2 := sim.Character(P1), sim.Character(P2)
	if p2.Phase != PhaseBlockstun || p2.Health != 497 {
		t.Errorf("defender after block: %+v", p2)
	}
	if p1.Meter != sim.Config().Combat.MeterOnBlock {
		t.Errorf("attacker meter = %d, want %d", p1.Meter, sim.Config().Combat.MeterOnBlock)
	}

	play(t, sim, 6, hold("5"), hold("6")) // ticks 4..9
	if p2 := sim.Character(P2); p2.Phase != PhaseBlockstun {
		t.Errorf("tick 9: defender should still be blocking, got %v", p2.Phase)
	}
	play(t, sim, 1, hold("5"), hold("6"))
	if p2 := sim.Character(P2); p2.Phase != PhaseNeutral {
		t.Errorf("tick 10: defender should be neutral, got %v", p2.Phase)
	}
}

func TestGuardTypes(t *testing.T) {
	tests := []struct {
		name   string
		attack string
		guard  string
		want   Outcome
		tick   int
	}{
		{"high vs standing guard", "LP", "6", OutcomeBlock, 3},
		{"high vs crouching guard", "LP", "3", OutcomeBlock, 3},
		{"low vs standing guard", "2LK", "6", OutcomeHit, 4},
		{"low vs crouching guard", "2LK", "3", OutcomeBlock, 4},
		{"overhead vs crouching guard", "6MK", "3", OutcomeHit, 5},
		{"overhead vs standing guard", "6MK", "6", OutcomeBlock, 5},
		{"no guard", "LP", "5", OutcomeHit, 3},
		{"crouching without guard", "2LK", "2", OutcomeHit, 4},
		{"throw ignores guard", "LP+LK", "6", OutcomeThrow, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newDuel(t, testConfig())
			events := play(t, sim, 8, press(map[int]string{0: tt.attack}), hold(tt.guard))
			if len(events) == 0 {
				t.Fatal("no contact")
			}
			if events[0].Outcome != tt.want || events[0].Tick != tt.tick {
				t.Errorf("first event = %v at tick %d, want %v at tick %d", events[0].Outcome, events[0].Tick, tt.want, tt.tick)
			}
		})
	}
}

func TestThrowBeatsStrike(t *testing.T) {
	sim := newDuel(t, testConfig())
	events := play(t, sim, 12, press(map[int]string{1: "LP+LK"}), press(map[int]string{0: "LP"}))

	if len(events) != 1 {
		t.Fatalf("events = %+v, want a single throw", events)
	}
	ev := events[0]
	if ev.Outcome != OutcomeThrow || ev.Attacker != P1 || ev.Tick != 3 || ev.Damage != 100 || !ev.Knockdown {
		t.Errorf("unexpected throw event %+v", ev)
	}
	p2 := sim.Character(P2)
	if p2.Phase != PhaseKnockdown || p2.Move != "" || p2.Health != 400 {
		t.Errorf("thrown character: %+v", p2)
	}
}

func TestThrowTech(t *testing.T) {
	sim := newDuel(t, testConfig())
	events := play(t, sim, 3, press(map[int]string{0: "LP+LK"}), press(map[int]string{0: "LP+LK"}))

	if got := outcomes(events); !reflect.DeepEqual(got, []Outcome{OutcomeThrowTech, OutcomeThrowTech}) {
		t.Fatalf("outcomes = %v, want two throw techs", got)
	}
	if events[0].Attacker != P1 || events[1].Attacker != P2 {
		t.Error("P1's event should come first")
	}
	p1, p2 := sim.Character(P1), sim.Character(P2)
	if p1.Phase != PhaseNeutral || p2.Phase != PhaseNeutral || p1.Health != 500 || p2.Health != 500 {
		t.Errorf("after tech: %+v %+v", p1, p2)
	}
	if d := p2.X - p1.X; d != 60+sim.Config().Combat.ThrowTechPush {
		t.Errorf("distance after tech = %d, want %d", d, 60+sim.Config().Combat.ThrowTechPush)
	}
}

func TestThrowMissesInvincibleReversal(t *testing.T) {
	sim := newDuel(t, testConfig())
	// P2 inputs a dragon punch facing left: forward, down, down-forward.
	p2 := press(map[int]string{0: "4", 1: "2", 2: "1LP"})
	events := play(t, sim, 8, press(map[int]string{3: "LP+LK"}), p2)

	for _, ev := range events {
		if ev.Outcome == OutcomeThrow {
			t.Fatalf("throw connected against a throw-invincible reversal: %+v", ev)
		}
	}
	if len(events) != 1 || events[0].Attacker != P2 || events[0].Move != "reversal" || events[0].Outcome != OutcomeHit {
		t.Fatalf("events = %+v, want the reversal to hit", events)
	}
	if events[0].Tick != 5 || !events[0].Knockdown {
		t.Errorf("reversal event %+v, want a knockdown at tick 5", events[0])
	}
}

func TestTrade(t *testing.T) {
	sim := newDuel(t, testConfig())
	events := play(t, sim, 4, press(map[int]string{0: "LP"}), press(map[int]string{0: "LP"}))

	if got := outcomes(events); !reflect.DeepEqual(got, []Outcome{OutcomeTrade, OutcomeTrade}) {
		t.Fatalf("outcomes = %v, want a trade", got)
	}
	for _, ev := range events {
		if ev.Damage != 30 || ev.Combo != 1 || ev.Stun != 10 {
			t.Errorf("trade event %+v", ev)
		}
	}
	for _, side := range []Side{P1, P2} {
		c := sim.Character(side)
		if c.Phase != PhaseHitstun || c.Health != 470 || c.Move != "" {
			t.Errorf("%s after trade: %+v", side, c)
		}
	}
}

func TestMultiHitWindows(t *testing.T) {
	sim := newDuel(t, testConfig())
	events := play(t, sim, 12, press(map[int]string{0: "HP"}), hold("5"))

	if len(events) != 2 {
		t.Fatalf("events = %+v, want one per hit window", events)
	}
	first, second := events[0], events[1]
	if first.Tick != 3 || first.Window != 0 || first.Damage != 20 || first.Combo != 1 {
		t.Errorf("first hit %+v", first)
	}
	if second.Tick != 6 || second.Window != 1 || second.Damage != 18 || second.Combo != 2 {
		t.Errorf("second hit %+v", second)
	}
}

func TestPushbackAtWall(t *testing.T) {
	sim := newDuel(t, testConfig())
	sim.chars[P1].X = 720
	sim.chars[P2].X = 780 // right wall for a 40-wide pushbox

	events := play(t, sim, 4, press(map[int]string{0: "LP"}), hold("5"))
	if len(events) != 1 || events[0].Outcome != OutcomeHit {
		t.Fatalf("events = %+v", events)
	}
	if p1, p2 := sim.Character(P1), sim.Character(P2); p2.X != 780 || p1.X != 715 {
		t.Errorf("positions = %d, %d; want the attacker pushed to 715 and the defender kept at 780", p1.X, p2.X)
	}
}

func TestInvincibleDefenderWhiffsOnce(t *testing.T) {
	sim := newDuel(t, testConfig())
	events := play(t, sim, 32, press(map[int]string{0: "2HK", 24: "LP"}), hold("5"))

	if got := outcomes(events); !reflect.DeepEqual(got, []Outcome{OutcomeHit, OutcomeWhiff}) {
		t.Fatalf("outcomes = %v, want a knockdown hit then one whiff", got)
	}
	sweep := events[0]
	if !sweep.Knockdown || sweep.Stun != 40 || sweep.Damage != 90 || sweep.Advantage != 42 {
		t.Errorf("sweep event %+v", sweep)
	}
	if events[1].Tick != 27 || events[1].Damage != 0 {
		t.Errorf("whiff event %+v", events[1])
	}
}
