package input

import "testing"

func TestHistoryWindowOrder(t *testing.T) {
	h := NewHistory(4)
	for d := Direction(1); d <= 3; d++ {
		h.Record(Sample{Dir: d})
	}

	w := h.Window(10)
	if len(w) != 3 {
		t.Fatalf("Window(10) returned %d samples, expected 3", len(w))
	}
	for i, want := range []Direction{1, 2, 3} {
		if w[i].Dir != want {
			t.Errorf("w[%d].Dir = %v, expected %v", i, w[i].Dir, want)
		}
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for d := Direction(1); d <= 5; d++ {
		h.Record(Sample{Dir: d})
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, expected 3", h.Len())
	}
	w := h.Window(3)
	for i, want := range []Direction{3, 4, 5} {
		if w[i].Dir != want {
			t.Errorf("w[%d].Dir = %v, expected %v", i, w[i].Dir, want)
		}
	}
	if got := h.Window(2); got[0].Dir != 4 || got[1].Dir != 5 {
		t.Errorf("Window(2) = %v, expected [4 5]", got)
	}
}

func TestHistoryEmptyWindow(t *testing.T) {
	h := NewHistory(DefaultHistorySize)
	if w := h.Window(5); len(w) != 0 {
		t.Errorf("empty history returned %d samples", len(w))
	}
	if h.Latest() != Idle {
		t.Errorf("Latest() of empty history = %v, expected idle", h.Latest())
	}
	if h.Pressed() != 0 {
		t.Errorf("Pressed() of empty history = %v, expected none", h.Pressed())
	}
}

func TestHistoryPressedEdges(t *testing.T) {
	h := NewHistory(8)
	h.Record(Sample{Dir: Neutral, Buttons: LP})
	h.Record(Sample{Dir: Neutral, Buttons: LP | HK})
	h.Record(Sample{Dir: Neutral, Buttons: HK})

	if got := h.PressedAt(2); got != LP {
		t.Errorf("PressedAt(2) = %v, expected LP", got)
	}
	if got := h.PressedAt(1); got != HK {
		t.Errorf("PressedAt(1) = %v, expected HK", got)
	}
	if got := h.Pressed(); got != 0 {
		t.Errorf("Pressed() while only holding = %v, expected none", got)
	}
}

func TestHistoryCloneIsIndependent(t *testing.T) {
	h := NewHistory(4)
	h.Record(Sample{Dir: Down})
	c := h.Clone()
	h.Record(Sample{Dir: Up})

	if c.Len() != 1 || c.Latest().Dir != Down {
		t.Errorf("clone changed after recording into the original: %v", c.Window(4))
	}
}

func TestSampleRelative(t *testing.T) {
	tests := []struct {
		name   string
		in     Sample
		facing int
		want   Direction
	}{
		{"right facing keeps forward", Sample{Dir: Forward}, 1, Forward},
		{"left facing mirrors", Sample{Dir: Forward}, -1, Back},
		{"left facing down-back", Sample{Dir: DownBack}, -1, DownForward},
		{"vertical unchanged", Sample{Dir: Up}, -1, Up},
		{"invalid lever is neutral", Sample{Dir: 0}, 1, Neutral},
		{"out of range lever is neutral", Sample{Dir: 12}, -1, Neutral},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Relative(tc.facing).Dir; got != tc.want {
				t.Errorf("Relative(%d).Dir = %v, expected %v", tc.facing, got, tc.want)
			}
		})
	}
}

func TestParseButtons(t *testing.T) {
	tests := []struct {
		in      string
		want    Buttons
		wantErr bool
	}{
		{"LP", LP, false},
		{"lp+lk", LP | LK, false},
		{"P", Punches, false},
		{"K", Kicks, false},
		{"XP", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseButtons(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseButtons(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseButtons(%q) = %v, expected %v", tc.in, got, tc.want)
		}
	}
}

func TestParseSample(t *testing.T) {
	tests := []struct {
		in      string
		want    Sample
		wantErr bool
	}{
		{"5-", Idle, false},
		{"5", Idle, false},
		{"2LK", Sample{Dir: Down, Buttons: LK}, false},
		{"6LP+LK", Sample{Dir: Forward, Buttons: LP | LK}, false},
		{"0LP", Idle, true},
		{"", Idle, true},
		{"4ZZ", Idle, true},
	}

	for _, tc := range tests {
		got, err := ParseSample(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseSample(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("ParseSample(%q) = %v, expected %v", tc.in, got, tc.want)
		}
		if !tc.wantErr {
			if back, _ := ParseSample(got.String()); back != got {
				t.Errorf("String form of %v does not parse back", got)
			}
		}
	}
}
