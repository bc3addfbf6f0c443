package layout

import (
	"sort"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/grid"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// ReflowForColumns re-packs every scope for a new column count: the "all"
// scope first, then each group scope independently, so the global and
// per-group arrangements diverge freely.
func ReflowForColumns(cards []model.Card, columns int, groups []model.GroupEntity) {
	reflowScope(cards, columns, ScopeAll)
	for _, g := range groups {
		reflowScope(cards, columns, GroupScope(g.Name))
	}
}

type placedRect struct{ x, y, w, h int }

// reflowScope greedily first-fit packs the scope's cards in a deterministic
// order: current row, then column, then explicit sort order, then id.
func reflowScope(cards []model.Card, columns int, scope string) {
	var members []*model.Card
	for i := range cards {
		if InScope(&cards[i], scope) {
			members = append(members, &cards[i])
		}
	}

	sort.SliceStable(members, func(i, j int) bool {
		pi, pj := PositionOf(members[i], scope), PositionOf(members[j], scope)
		if pi.Y != pj.Y {
			return pi.Y < pj.Y
		}
		if pi.X != pj.X {
			return pi.X < pj.X
		}
		if members[i].SortOrder != members[j].SortOrder {
			return members[i].SortOrder < members[j].SortOrder
		}
		return members[i].ID < members[j].ID
	})

	var taken []placedRect
	for _, c := range members {
		w, h := grid.Footprint(string(c.UIConfig.Size))
		if w > columns {
			// Wider than the grid itself: occupy full rows at column 0.
			w = columns
		}
		pos := firstFit(taken, columns, w, h)
		taken = append(taken, placedRect{pos.X, pos.Y, w, h})
		SetPosition(c, scope, pos)
	}
}

// firstFit returns the topmost, leftmost slot where a w×h rectangle avoids
// every already-placed rectangle. Rows above the packed region are always
// reachable, so the scan terminates.
func firstFit(taken []placedRect, columns, w, h int) model.Position {
	for row := 0; ; row++ {
		for col := 0; col+w <= columns; col++ {
			free := true
			for _, t := range taken {
				if grid.RectsOverlap(col, row, w, h, t.x, t.y, t.w, t.h) {
					free = false
					break
				}
			}
			if free {
				return model.Position{X: col, Y: row}
			}
		}
	}
}
