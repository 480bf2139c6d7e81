package model

import "sync"

// Ring is a bounded buffer of messages used while following a live file.
// Once full, the oldest message is overwritten.
type Ring struct {
	mu      sync.RWMutex
	buf     []*LogMessage
	cap     int
	start   int
	size    int
	total   uint64 // total ingested
	dropped uint64
}

func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{cap: capacity, buf: make([]*LogMessage, capacity)}
}

func (r *Ring) Push(m *LogMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size < r.cap {
		r.buf[(r.start+r.size)%r.cap] = m
		r.size++
	} else {
		// overwrite oldest
		r.buf[r.start] = m
		r.start = (r.start + 1) % r.cap
		r.dropped++
	}
	r.total++
}

// Snapshot copies the buffered messages in arrival order. The returned slice
// is new on every call, so callers may hand it to a viewing session as is.
func (r *Ring) Snapshot() ([]*LogMessage, uint64, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*LogMessage, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%r.cap]
	}
	return out, r.total, r.dropped
}

func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *Ring) ClearVisible() { // does not reset counters
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.buf {
		r.buf[i] = nil
	}
	r.size = 0
	r.start = 0
}
