package lifecycle

// DefaultMaxHistory is the default capacity of a transition history.
const DefaultMaxHistory = 50

// History is a bounded, append-only ledger of committed transitions for one
// entity. It is backed by a fixed-capacity ring buffer: appends are O(1) and
// once the capacity is reached the oldest record is evicted on every append.
// Records are ordered strictly by call sequence, not by wall-clock time.
type History struct {
	records []Record
	start   int
	count   int
}

// NewHistory creates a History holding at most capacity records. A
// non-positive capacity falls back to DefaultMaxHistory.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultMaxHistory
	}

	return &History{
		records: make([]Record, capacity),
	}
}

// Append adds a record, evicting the oldest one when the history is full.
func (h *History) Append(record Record) {
	if h.count < len(h.records) {
		h.records[(h.start+h.count)%len(h.records)] = record
		h.count++

		return
	}

	// Full: overwrite the oldest slot and advance the start index.
	h.records[h.start] = record
	h.start = (h.start + 1) % len(h.records)
}

// Len returns the number of records currently held.
func (h *History) Len() int {
	return h.count
}

// Cap returns the maximum number of records the history retains.
func (h *History) Cap() int {
	return len(h.records)
}

// Last returns the most recent record, if any.
func (h *History) Last() (Record, bool) {
	if h.count == 0 {
		return Record{}, false
	}

	return h.records[(h.start+h.count-1)%len(h.records)], true
}

// All returns the retained records oldest-first (most recent last). A
// positive limit restricts the result to the most recent limit records.
func (h *History) All(limit int) []Record {
	n := h.count
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]Record, 0, n)

	// Skip the oldest records when a limit applies.
	for i := h.count - n; i < h.count; i++ {
		out = append(out, h.records[(h.start+i)%len(h.records)])
	}

	return out
}
