package layout

import (
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/grid"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// maxScanRows bounds the placement scan. Beyond it the degenerate fallback
// {0, startRow} is returned rather than failing.
const maxScanRows = 200

// collides reports whether the rectangle intersects any same-scope visible
// card other than excludeID.
func collides(cards []model.Card, excludeID, scope string, x, y, w, h int) bool {
	for i := range cards {
		c := &cards[i]
		if c.ID == excludeID || !InScope(c, scope) {
			continue
		}
		pos := PositionOf(c, scope)
		cw, ch := grid.Footprint(string(c.UIConfig.Size))
		if grid.RectsOverlap(x, y, w, h, pos.X, pos.Y, cw, ch) {
			return true
		}
	}
	return false
}

// FindPlacement scans rows from startRow, columns left to right, and returns
// the first slot where the footprint fits without collision. If the scan
// depth is exhausted, {0, startRow} is the defined fallback.
func FindPlacement(cards []model.Card, size model.CardSize, columns, startRow int, excludeID, scope string) model.Position {
	w, h := grid.Footprint(string(size))
	for row := startRow; row < startRow+maxScanRows; row++ {
		for col := 0; col+w <= columns; col++ {
			if !collides(cards, excludeID, scope, col, row, w, h) {
				return model.Position{X: col, Y: row}
			}
		}
	}
	return model.Position{X: 0, Y: startRow}
}

// RelayoutCardIfNeeded re-places a card whose rectangle has become invalid
// (collision or out of bounds), trying in order: the nearest placement from
// its current row, the next free row below every same-scope card, and the
// first globally free placement.
func RelayoutCardIfNeeded(cards []model.Card, card *model.Card, columns int, scope string) {
	pos := PositionOf(card, scope)
	w, h := grid.Footprint(string(card.UIConfig.Size))
	if grid.InBounds(pos.X, pos.Y, w, columns) && !collides(cards, card.ID, scope, pos.X, pos.Y, w, h) {
		return
	}

	p := FindPlacement(cards, card.UIConfig.Size, columns, pos.Y, card.ID, scope)
	if grid.InBounds(p.X, p.Y, w, columns) && !collides(cards, card.ID, scope, p.X, p.Y, w, h) {
		SetPosition(card, scope, p)
		return
	}

	bottom := 0
	for i := range cards {
		c := &cards[i]
		if c.ID == card.ID || !InScope(c, scope) {
			continue
		}
		cp := PositionOf(c, scope)
		_, ch := grid.Footprint(string(c.UIConfig.Size))
		if cp.Y+ch > bottom {
			bottom = cp.Y + ch
		}
	}
	if grid.InBounds(0, bottom, w, columns) && !collides(cards, card.ID, scope, 0, bottom, w, h) {
		SetPosition(card, scope, model.Position{X: 0, Y: bottom})
		return
	}

	SetPosition(card, scope, FindPlacement(cards, card.UIConfig.Size, columns, 0, card.ID, scope))
}
