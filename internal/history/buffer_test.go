package history

import (
	"fmt"
	"testing"
)

func entryAt(n int) Entry {
	return Entry{ExecutedAt: fmt.Sprintf("t%d", n), DurationMs: int64(n), OK: true}
}

func TestBufferWrapAround(t *testing.T) {
	b := New(10)
	for i := 1; i <= 12; i++ {
		b.Append(entryAt(i))
	}
	if b.Size != 10 {
		t.Fatalf("size = %d, want 10", b.Size)
	}
	recent := b.Recent()
	if len(recent) != 10 {
		t.Fatalf("Recent() returned %d entries", len(recent))
	}
	// Newest first: 12, 11, ..., 3.
	for i, e := range recent {
		want := int64(12 - i)
		if e.DurationMs != want {
			t.Errorf("Recent()[%d].DurationMs = %d, want %d", i, e.DurationMs, want)
		}
	}
}

func TestBufferPartialFill(t *testing.T) {
	b := New(5)
	if got := b.Recent(); len(got) != 0 {
		t.Fatalf("empty buffer Recent() = %d entries", len(got))
	}
	b.Append(entryAt(1)).Append(entryAt(2))
	recent := b.Recent()
	if len(recent) != 2 || recent[0].DurationMs != 2 || recent[1].DurationMs != 1 {
		t.Errorf("Recent() = %+v", recent)
	}
}

func TestNewPanicsOnInvalidCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(0) should panic")
		}
	}()
	New(0)
}

func TestWithCapacityShrink(t *testing.T) {
	b := New(10)
	for i := 1; i <= 8; i++ {
		b.Append(entryAt(i))
	}
	small := b.WithCapacity(3)
	if small.Capacity != 3 || small.Size != 3 {
		t.Fatalf("capacity/size = %d/%d", small.Capacity, small.Size)
	}
	recent := small.Recent()
	for i, want := range []int64{8, 7, 6} {
		if recent[i].DurationMs != want {
			t.Errorf("Recent()[%d] = %d, want %d", i, recent[i].DurationMs, want)
		}
	}
}

func TestWithCapacityGrow(t *testing.T) {
	b := New(2)
	b.Append(entryAt(1)).Append(entryAt(2)).Append(entryAt(3))
	big := b.WithCapacity(5)
	if big.Capacity != 5 || big.Size != 2 {
		t.Fatalf("capacity/size = %d/%d", big.Capacity, big.Size)
	}
	recent := big.Recent()
	if recent[0].DurationMs != 3 || recent[1].DurationMs != 2 {
		t.Errorf("Recent() = %+v", recent)
	}
	// Growing keeps appending seamless.
	big.Append(entryAt(4))
	if got := big.Recent()[0].DurationMs; got != 4 {
		t.Errorf("newest after append = %d", got)
	}
}

func TestWithCapacitySameIsIdentity(t *testing.T) {
	b := New(4)
	if b.WithCapacity(4) != b {
		t.Error("same-capacity resize should return the receiver")
	}
}

func TestNormalize(t *testing.T) {
	// Nil input becomes an empty buffer at the low bound.
	b := Normalize(nil, 10, 500)
	if b.Capacity != 10 || b.Size != 0 {
		t.Errorf("nil normalize: %d/%d", b.Capacity, b.Size)
	}

	// Capacity outside bounds is clamped, entries preserved.
	src := New(5)
	for i := 1; i <= 5; i++ {
		src.Append(entryAt(i))
	}
	clamped := Normalize(src, 10, 500)
	if clamped.Capacity != 10 {
		t.Errorf("capacity = %d, want 10", clamped.Capacity)
	}
	if got := clamped.Recent(); len(got) != 5 || got[0].DurationMs != 5 {
		t.Errorf("entries lost in clamp: %+v", got)
	}

	// Bookkeeping inconsistent with storage gets rebuilt, not trusted.
	broken := &Buffer{Capacity: 4, NextIndex: 99, Size: 2, Entries: make([]Entry, 4)}
	fixed := Normalize(broken, 1, 500)
	if fixed.NextIndex < 0 || fixed.NextIndex >= fixed.Capacity {
		t.Errorf("rebuilt buffer has bad index %d", fixed.NextIndex)
	}

	// A healthy in-bounds buffer passes through untouched.
	ok := New(50)
	ok.Append(entryAt(1))
	if Normalize(ok, 10, 500) != ok {
		t.Error("healthy buffer should be returned as-is")
	}
}

func TestSummarize(t *testing.T) {
	if s := Summarize(nil); s.Total != 0 || s.SuccessRate != 0 {
		t.Errorf("empty summary = %+v", s)
	}

	entries := []Entry{
		{OK: true, DurationMs: 100},
		{OK: true, DurationMs: 200},
		{OK: false, DurationMs: 300},
		{OK: true, DurationMs: 400},
	}
	s := Summarize(entries)
	if s.Total != 4 || s.SuccessCount != 3 || s.FailureCount != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.SuccessRate != 0.75 {
		t.Errorf("success rate = %v", s.SuccessRate)
	}
	if s.AverageDurationMs != 250 {
		t.Errorf("average = %v", s.AverageDurationMs)
	}
	// Nearest rank on n=4: p50 -> rank 2 (200), p90 -> rank 4 (400).
	if s.P50DurationMs != 200 {
		t.Errorf("p50 = %d", s.P50DurationMs)
	}
	if s.P90DurationMs != 400 {
		t.Errorf("p90 = %d", s.P90DurationMs)
	}
}

func TestSummarizeSingleEntry(t *testing.T) {
	s := Summarize([]Entry{{OK: false, DurationMs: 42}})
	if s.P50DurationMs != 42 || s.P90DurationMs != 42 {
		t.Errorf("percentiles = %d/%d", s.P50DurationMs, s.P90DurationMs)
	}
	if s.SuccessRate != 0 {
		t.Errorf("success rate = %v", s.SuccessRate)
	}
}
