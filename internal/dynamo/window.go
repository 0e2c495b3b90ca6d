package dynamo

import "gonum.org/v1/gonum/floats"

// window is a fixed-capacity FIFO of population pairs used for equilibrium
// detection. Order does not matter for the spread test, so it is a ring.
type window struct {
	white []float64
	black []float64
	next  int
	size  int
}

func newWindow(capacity int) *window {
	if capacity < 1 {
		capacity = 1
	}
	return &window{
		white: make([]float64, capacity),
		black: make([]float64, capacity),
	}
}

// push records a pair, evicting the oldest once full.
func (w *window) push(white, black float64) {
	w.white[w.next] = white
	w.black[w.next] = black
	w.next = (w.next + 1) % len(w.white)
	if w.size < len(w.white) {
		w.size++
	}
}

func (w *window) full() bool { return w.size == len(w.white) }

func (w *window) len() int { return w.size }

// spread returns max-min of each series over the recorded entries.
func (w *window) spread() (white, black float64) {
	if w.size == 0 {
		return 0, 0
	}
	ws, bs := w.white[:w.size], w.black[:w.size]
	return floats.Max(ws) - floats.Min(ws), floats.Max(bs) - floats.Min(bs)
}

func (w *window) reset() {
	w.next = 0
	w.size = 0
}
