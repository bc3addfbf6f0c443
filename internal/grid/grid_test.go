package grid

import "testing"

func TestFootprint(t *testing.T) {
	tests := []struct {
		size string
		w, h int
	}{
		{"1x1", 1, 1},
		{"2x1", 2, 1},
		{"1x2", 1, 2},
		{"2x2", 2, 2},
		{"", 1, 1},
		{"banana", 1, 1},
		{"3x3", 1, 1},
		{"2", 1, 1},
		{"2x", 2, 1},
		{"x2", 1, 2},
	}
	for _, tt := range tests {
		w, h := Footprint(tt.size)
		if w != tt.w || h != tt.h {
			t.Errorf("Footprint(%q) = (%d,%d), want (%d,%d)", tt.size, w, h, tt.w, tt.h)
		}
	}
}

func TestSpanOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aLen, bStart, bLen int
		want                       bool
	}{
		{"identical", 0, 2, 0, 2, true},
		{"adjacent no overlap", 0, 2, 2, 1, false},
		{"partial", 1, 2, 2, 2, true},
		{"contained", 0, 4, 1, 1, true},
		{"disjoint", 0, 1, 3, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpanOverlap(tt.aStart, tt.aLen, tt.bStart, tt.bLen); got != tt.want {
				t.Errorf("SpanOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectsOverlap(t *testing.T) {
	// Two 2x1 cards side by side do not overlap.
	if RectsOverlap(0, 0, 2, 1, 2, 0, 2, 1) {
		t.Error("side-by-side rects reported as overlapping")
	}
	// A 2x2 card at (0,0) collides with a 1x1 at (1,1).
	if !RectsOverlap(0, 0, 2, 2, 1, 1, 1, 1) {
		t.Error("expected corner overlap")
	}
	// Same column, different rows.
	if RectsOverlap(0, 0, 1, 1, 0, 1, 1, 1) {
		t.Error("stacked rects reported as overlapping")
	}
}

func TestInBounds(t *testing.T) {
	if !InBounds(0, 0, 2, 2) {
		t.Error("2-wide card at origin should fit in 2 columns")
	}
	if InBounds(1, 0, 2, 2) {
		t.Error("2-wide card at x=1 must not fit in 2 columns")
	}
	if InBounds(-1, 0, 1, 4) || InBounds(0, -1, 1, 4) {
		t.Error("negative coordinates are out of bounds")
	}
	if !InBounds(3, 100, 1, 4) {
		t.Error("rows extend downward without bound")
	}
}

func TestCellSize(t *testing.T) {
	if got := CellSize(430, 4, 10); got != 100 {
		t.Errorf("CellSize(430,4,10) = %d, want 100", got)
	}
	if got := CellSize(10, 4, 10); got != 0 {
		t.Errorf("narrow container should floor at zero, got %d", got)
	}
	if got := CellSize(100, 0, 10); got != 0 {
		t.Errorf("zero columns should yield 0, got %d", got)
	}
}
