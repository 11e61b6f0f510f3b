package input

// DefaultHistorySize is the number of ticks kept per player.
const DefaultHistorySize = 60

// History is a fixed-capacity ring of samples. Recording into a full
// history evicts the oldest sample.
type History struct {
	buf  []Sample
	head int // index of the oldest sample
	n    int
}

// NewHistory creates an empty history. Capacities below 2 are raised to 2
// so newly pressed buttons can always be derived.
func NewHistory(capacity int) *History {
	if capacity < 2 {
		capacity = 2
	}
	return &History{buf: make([]Sample, capacity)}
}

// Record appends a sample.
func (h *History) Record(s Sample) {
	if h.n < len(h.buf) {
		h.buf[(h.head+h.n)%len(h.buf)] = s
		h.n++
		return
	}
	h.buf[h.head] = s
	h.head = (h.head + 1) % len(h.buf)
}

// Window returns up to n most recent samples, oldest first. It returns
// fewer when fewer have been recorded and never fails.
func (h *History) Window(n int) []Sample {
	if n > h.n {
		n = h.n
	}
	if n <= 0 {
		return nil
	}
	out := make([]Sample, n)
	start := h.n - n
	for i := 0; i < n; i++ {
		out[i] = h.buf[(h.head+start+i)%len(h.buf)]
	}
	return out
}

// At returns the sample recorded `back` ticks ago (0 is the latest).
func (h *History) At(back int) (Sample, bool) {
	if back < 0 || back >= h.n {
		return Sample{}, false
	}
	return h.buf[(h.head+h.n-1-back)%len(h.buf)], true
}

// Latest returns the most recent sample, or Idle when empty.
func (h *History) Latest() Sample {
	s, ok := h.At(0)
	if !ok {
		return Idle
	}
	return s
}

// PressedAt returns the buttons that went down on the tick `back` ticks
// ago. The oldest retained sample counts as pressed against an idle pad.
func (h *History) PressedAt(back int) Buttons {
	cur, ok := h.At(back)
	if !ok {
		return 0
	}
	prev, ok := h.At(back + 1)
	if !ok {
		prev = Idle
	}
	return cur.Buttons &^ prev.Buttons
}

// Pressed returns the buttons newly pressed on the latest tick.
func (h *History) Pressed() Buttons {
	return h.PressedAt(0)
}

// Len returns the number of samples held.
func (h *History) Len() int {
	return h.n
}

// Cap returns the capacity.
func (h *History) Cap() int {
	return len(h.buf)
}

// Reset empties the history.
func (h *History) Reset() {
	h.head = 0
	h.n = 0
}

// Clone returns an independent copy.
func (h *History) Clone() *History {
	c := &History{buf: make([]Sample, len(h.buf)), head: h.head, n: h.n}
	copy(c.buf, h.buf)
	return c
}
