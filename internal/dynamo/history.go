package dynamo

// History is the ordered per-tick snapshot log of a run. It grows without
// bound unless the run's HistoryLimit caps it, in which case the oldest
// entries are dropped. HistoryStride thins the log for long headless runs.
type History struct {
	buf    []Snapshot
	start  int
	limit  int
	stride int
}

func newHistory(limit, stride int) *History {
	if stride < 1 {
		stride = 1
	}
	h := &History{limit: limit, stride: stride}
	if limit > 0 {
		h.buf = make([]Snapshot, 0, limit)
	}
	return h
}

func (h *History) record(s Snapshot) {
	if s.Tick%h.stride != 0 {
		return
	}
	h.buf = append(h.buf, s)
	if h.limit <= 0 {
		return
	}
	if len(h.buf)-h.start > h.limit {
		h.start++
	}
	// compact once the dead prefix is as large as the live window
	if h.start >= h.limit {
		n := copy(h.buf, h.buf[h.start:])
		h.buf = h.buf[:n]
		h.start = 0
	}
}

func (h *History) clear() {
	h.buf = h.buf[:0]
	h.start = 0
}

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.buf) - h.start }

// At returns the i-th retained snapshot, oldest first.
func (h *History) At(i int) Snapshot { return h.buf[h.start+i] }

// Last returns the most recent snapshot and false if the log is empty.
func (h *History) Last() (Snapshot, bool) {
	if h.Len() == 0 {
		return Snapshot{}, false
	}
	return h.buf[len(h.buf)-1], true
}

// Snapshots returns the retained entries, oldest first. The slice aliases
// internal storage and is only valid until the next Step or Reset.
func (h *History) Snapshots() []Snapshot { return h.buf[h.start:] }

// Clone returns an independent copy of the retained entries.
func (h *History) Clone() []Snapshot {
	out := make([]Snapshot, h.Len())
	copy(out, h.Snapshots())
	return out
}

// Series extracts one column of the log.
func (h *History) Series(field func(Snapshot) float64) []float64 {
	out := make([]float64, 0, h.Len())
	for _, s := range h.Snapshots() {
		out = append(out, field(s))
	}
	return out
}
