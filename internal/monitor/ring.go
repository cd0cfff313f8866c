package monitor

// entryRing is a fixed-capacity ring of log entries. When full, pushing a new
// entry evicts the oldest. Not safe for concurrent use; the Aggregator's
// single goroutine owns every ring.
type entryRing struct {
	entries []LogEntry
	cap     int
	head    int // index of the oldest entry
	size    int
}

func newEntryRing(capacity int) *entryRing {
	if capacity < 1 {
		capacity = 1
	}
	return &entryRing{
		entries: make([]LogEntry, capacity),
		cap:     capacity,
	}
}

// Push appends an entry, evicting the oldest when the ring is full.
func (r *entryRing) Push(e LogEntry) {
	if r.size < r.cap {
		r.entries[(r.head+r.size)%r.cap] = e
		r.size++
		return
	}
	r.entries[r.head] = e
	r.head = (r.head + 1) % r.cap
}

// Items returns the entries oldest first as a fresh slice.
func (r *entryRing) Items() []LogEntry {
	out := make([]LogEntry, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.entries[(r.head+i)%r.cap]
	}
	return out
}

// Len reports the number of stored entries.
func (r *entryRing) Len() int { return r.size }

// Clear drops all entries while keeping the allocated capacity.
func (r *entryRing) Clear() {
	r.head = 0
	r.size = 0
}

// floatRing is a fixed-capacity ring of float64 samples used for the CPU
// history sparkline.
type floatRing struct {
	vals []float64
	cap  int
	head int
	size int
}

func newFloatRing(capacity int) *floatRing {
	if capacity < 1 {
		capacity = 1
	}
	return &floatRing{vals: make([]float64, capacity), cap: capacity}
}

func (r *floatRing) Push(v float64) {
	if r.size < r.cap {
		r.vals[(r.head+r.size)%r.cap] = v
		r.size++
		return
	}
	r.vals[r.head] = v
	r.head = (r.head + 1) % r.cap
}

func (r *floatRing) Items() []float64 {
	out := make([]float64, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.vals[(r.head+i)%r.cap]
	}
	return out
}
