// Package grid holds the pure geometry helpers the layout engine is built on.
package grid

import "strings"

// Footprint derives the (width, height) in cells from a size token such as
// "2x1": an axis is 2 cells iff that axis of the token encodes "2", else 1.
func Footprint(size string) (w, h int) {
	w, h = 1, 1
	parts := strings.SplitN(size, "x", 2)
	if len(parts) == 2 {
		if parts[0] == "2" {
			w = 2
		}
		if parts[1] == "2" {
			h = 2
		}
	}
	return w, h
}

// SpanOverlap reports whether the half-open ranges [aStart, aStart+aLen) and
// [bStart, bStart+bLen) intersect.
func SpanOverlap(aStart, aLen, bStart, bLen int) bool {
	return aStart < bStart+bLen && bStart < aStart+aLen
}

// RectsOverlap reports whether two cell rectangles intersect.
func RectsOverlap(ax, ay, aw, ah, bx, by, bw, bh int) bool {
	return SpanOverlap(ax, aw, bx, bw) && SpanOverlap(ay, ah, by, bh)
}

// InBounds reports whether a rectangle lies within [0, columns) horizontally
// and at or below row zero. Rows extend downward without bound.
func InBounds(x, y, w int, columns int) bool {
	return x >= 0 && y >= 0 && x+w <= columns
}

// CellSize computes the pixel width of one cell for a container width, column
// count, and gap, floored at zero. Used by presentation read models.
func CellSize(containerWidth, columns, gap int) int {
	if columns < 1 {
		return 0
	}
	size := (containerWidth - gap*(columns-1)) / columns
	if size < 0 {
		size = 0
	}
	return size
}
