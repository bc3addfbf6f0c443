package layout

import (
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/grid"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// MoveCard attempts to move a card to (x, y) within a scope. Exactly four
// outcomes exist: free move, swap, jump-over, or rejection with no mutation.
// The return value reports whether any positions changed.
func MoveCard(cards []model.Card, id string, x, y, columns int, scope string) bool {
	var mover *model.Card
	for i := range cards {
		if cards[i].ID == id {
			mover = &cards[i]
			break
		}
	}
	if mover == nil || !InScope(mover, scope) {
		return false
	}

	w, h := grid.Footprint(string(mover.UIConfig.Size))
	if !grid.InBounds(x, y, w, columns) {
		return false
	}

	cur := PositionOf(mover, scope)
	if cur.X == x && cur.Y == y {
		return false
	}

	occupants := cardsAt(cards, mover.ID, scope, x, y, w, h)
	if len(occupants) == 0 {
		SetPosition(mover, scope, model.Position{X: x, Y: y})
		return true
	}

	// Blocked. Only a single-unit step can swap or jump.
	dx, dy := x-cur.X, y-cur.Y
	if abs(dx)+abs(dy) != 1 {
		return false
	}

	ahead := directionalBlockers(cards, mover, scope, cur, w, h, dx, dy)
	if len(ahead) != 1 || len(occupants) != 1 || ahead[0] != occupants[0] {
		return false
	}
	blocker := ahead[0]
	bw, bh := grid.Footprint(string(blocker.UIConfig.Size))
	bpos := PositionOf(blocker, scope)

	if bw == w && bh == h {
		// Identical footprint: exchange positions.
		SetPosition(mover, scope, bpos)
		SetPosition(blocker, scope, cur)
		return true
	}

	// Jump-over: land immediately beyond the blocker's far edge.
	land := cur
	switch {
	case dx > 0:
		land.X = bpos.X + bw
	case dx < 0:
		land.X = bpos.X - w
	case dy > 0:
		land.Y = bpos.Y + bh
	default:
		land.Y = bpos.Y - h
	}
	if !grid.InBounds(land.X, land.Y, w, columns) {
		return false
	}
	if collides(cards, mover.ID, scope, land.X, land.Y, w, h) {
		return false
	}
	SetPosition(mover, scope, land)
	return true
}

// cardsAt returns the same-scope cards whose rectangles intersect the target.
func cardsAt(cards []model.Card, excludeID, scope string, x, y, w, h int) []*model.Card {
	var out []*model.Card
	for i := range cards {
		c := &cards[i]
		if c.ID == excludeID || !InScope(c, scope) {
			continue
		}
		pos := PositionOf(c, scope)
		cw, ch := grid.Footprint(string(c.UIConfig.Size))
		if grid.RectsOverlap(x, y, w, h, pos.X, pos.Y, cw, ch) {
			out = append(out, c)
		}
	}
	return out
}

// directionalBlockers enumerates every same-scope card strictly ahead of the
// mover along the move axis whose cross-axis span intersects the mover's.
// The whole axis is inspected, not just the adjacent cell: a swap or jump is
// eligible only when exactly one such card exists.
func directionalBlockers(cards []model.Card, mover *model.Card, scope string, cur model.Position, w, h, dx, dy int) []*model.Card {
	var out []*model.Card
	for i := range cards {
		c := &cards[i]
		if c.ID == mover.ID || !InScope(c, scope) {
			continue
		}
		pos := PositionOf(c, scope)
		cw, ch := grid.Footprint(string(c.UIConfig.Size))

		if dx != 0 {
			if !grid.SpanOverlap(cur.Y, h, pos.Y, ch) {
				continue
			}
			if (dx > 0 && pos.X > cur.X) || (dx < 0 && pos.X < cur.X) {
				out = append(out, c)
			}
			continue
		}
		if !grid.SpanOverlap(cur.X, w, pos.X, cw) {
			continue
		}
		if (dy > 0 && pos.Y > cur.Y) || (dy < 0 && pos.Y < cur.Y) {
			out = append(out, c)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
