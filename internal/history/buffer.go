// Package history implements the fixed-capacity execution log kept per card.
package history

import "fmt"

// Entry records one script execution outcome.
type Entry struct {
	ExecutedAt   string  `yaml:"executed_at"`
	DurationMs   int64   `yaml:"duration_ms"`
	OK           bool    `yaml:"ok"`
	TimedOut     bool    `yaml:"timed_out"`
	ExitCode     *int    `yaml:"exit_code,omitempty"`
	ErrorSummary *string `yaml:"error_summary,omitempty"`
}

// Buffer is a classic ring buffer: writes land at NextIndex and silently
// overwrite the oldest entry once full. The physical entry order is an
// implementation detail; Entries is the public contract.
type Buffer struct {
	Capacity  int     `yaml:"capacity"`
	NextIndex int     `yaml:"next_index"`
	Size      int     `yaml:"size"`
	Entries   []Entry `yaml:"entries"`
}

// New creates an empty buffer. Capacity below 1 is a caller bug.
func New(capacity int) *Buffer {
	if capacity < 1 {
		panic(fmt.Sprintf("history: invalid buffer capacity %d", capacity))
	}
	return &Buffer{
		Capacity: capacity,
		Entries:  make([]Entry, capacity),
	}
}

// Append writes e at the next slot and returns the same buffer for chaining.
func (b *Buffer) Append(e Entry) *Buffer {
	b.Entries[b.NextIndex] = e
	b.NextIndex = (b.NextIndex + 1) % b.Capacity
	if b.Size < b.Capacity {
		b.Size++
	}
	return b
}

// Recent returns the stored entries in descending recency order: index 0 is
// the newest entry regardless of where it physically sits.
func (b *Buffer) Recent() []Entry {
	out := make([]Entry, 0, b.Size)
	for i := 0; i < b.Size; i++ {
		idx := (b.NextIndex - 1 - i + b.Capacity*2) % b.Capacity
		out = append(out, b.Entries[idx])
	}
	return out
}

// WithCapacity returns a buffer of the new capacity holding the newest
// min(size, newCapacity) entries, recency order preserved.
func (b *Buffer) WithCapacity(newCapacity int) *Buffer {
	if newCapacity < 1 {
		panic(fmt.Sprintf("history: invalid buffer capacity %d", newCapacity))
	}
	if newCapacity == b.Capacity {
		return b
	}
	recent := b.Recent()
	if len(recent) > newCapacity {
		recent = recent[:newCapacity]
	}
	out := New(newCapacity)
	// Oldest first so Recent() keeps the original ordering.
	for i := len(recent) - 1; i >= 0; i-- {
		out.Append(recent[i])
	}
	return out
}

// Normalize repairs a buffer loaded from disk: clamps the capacity into
// [lo, hi], reconciles entry storage length, and bounds the indices.
func Normalize(b *Buffer, lo, hi int) *Buffer {
	if b == nil {
		return New(lo)
	}
	capacity := b.Capacity
	if capacity < lo {
		capacity = lo
	}
	if capacity > hi {
		capacity = hi
	}
	if len(b.Entries) != b.Capacity || b.Size > b.Capacity || b.Size < 0 ||
		b.NextIndex < 0 || b.NextIndex >= max(b.Capacity, 1) {
		// Storage is inconsistent with its own bookkeeping; keep what is
		// addressable and rebuild.
		out := New(capacity)
		n := min(b.Size, len(b.Entries))
		for i := 0; i < n; i++ {
			out.Append(b.Entries[i])
		}
		return out
	}
	if capacity != b.Capacity {
		return b.WithCapacity(capacity)
	}
	return b
}
