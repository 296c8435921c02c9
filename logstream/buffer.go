package logstream

import "sync"

// Buffer is a fixed-capacity ring of log lines. Appending to a full buffer
// evicts the oldest line. Safe for concurrent use.
type Buffer struct {
	mu       sync.RWMutex
	lines    []string
	capacity int
	head     int // index of the oldest line
	size     int
	dropped  int64
}

// NewBuffer creates a buffer holding at most capacity lines. A non-positive
// capacity panics: the caller picks the bound, usually from the timing
// configuration.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		panic("logstream: buffer capacity must be positive")
	}
	return &Buffer{
		lines:    make([]string, capacity),
		capacity: capacity,
	}
}

// Append adds one line, evicting the oldest when full.
func (b *Buffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == b.capacity {
		b.lines[b.head] = line
		b.head = (b.head + 1) % b.capacity
		b.dropped++
		return
	}

	b.lines[(b.head+b.size)%b.capacity] = line
	b.size++
}

// Lines returns the retained lines, oldest first. The slice is a copy.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.lines[(b.head+i)%b.capacity]
	}
	return out
}

// Len returns the number of retained lines.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Capacity returns the maximum number of retained lines.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Dropped returns how many lines were evicted since creation.
func (b *Buffer) Dropped() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// Clear discards all retained lines. The dropped counter is kept.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.size = 0
}
