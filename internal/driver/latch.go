package driver

import (
	"sync"

	"github.com/vovakirdan/tui-fighter/internal/input"
)

// Latch turns discrete key presses into held samples. Terminals report
// presses and repeats but no releases, so a direction stays held for a
// few ticks after its last press and buttons are held for one tick.
// Presses arriving between ticks are merged.
type Latch struct {
	mu      sync.Mutex
	hold    int
	dir     input.Direction
	left    int
	buttons input.Buttons
}

// NewLatch creates a latch holding directions for hold ticks.
func NewLatch(hold int) *Latch {
	if hold < 1 {
		hold = 1
	}
	return &Latch{hold: hold, dir: input.Neutral}
}

// Direction latches a screen-relative lever position. A press on one
// axis keeps the other axis of a direction that is still held, so left
// then down makes down-left.
func (l *Latch) Direction(d input.Direction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d = d.Normalize()
	if l.left > 0 {
		d = combine(l.dir, d)
	}
	l.dir = d
	l.left = l.hold
}

// combine takes each axis from next unless next leaves it centred.
func combine(held, next input.Direction) input.Direction {
	hx, hy := axes(held)
	nx, ny := axes(next)
	if nx == 0 {
		nx = hx
	}
	if ny == 0 {
		ny = hy
	}
	return input.Direction(5 + nx + 3*ny)
}

// axes splits a numpad direction into x (-1 left, 1 right) and y (-1
// down, 1 up).
func axes(d input.Direction) (x, y int) {
	i := int(d) - 1
	return i%3 - 1, i/3 - 1
}

// Press latches buttons for the next tick.
func (l *Latch) Press(b input.Buttons) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buttons |= b
}

// Release drops everything latched.
func (l *Latch) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dir, l.left, l.buttons = input.Neutral, 0, 0
}

// Next consumes the latched state for one tick.
func (l *Latch) Next(View) input.Sample {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := input.Sample{Dir: input.Neutral, Buttons: l.buttons}
	if l.left > 0 {
		s.Dir = l.dir
		l.left--
	}
	l.buttons = 0
	return s
}
