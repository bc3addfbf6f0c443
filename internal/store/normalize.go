package store

import (
	"sort"
	"strings"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/history"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/layout"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// legacySamplePrefix marks demo cards shipped with early builds; they are
// stripped on load.
const legacySamplePrefix = "sample-"

// Normalize turns arbitrary loaded data into canonical state. It is
// idempotent: normalizing canonical state is a no-op. It never fails —
// unusable records are dropped, out-of-range values clamped, and missing
// structure inferred.
func Normalize(raw model.State) model.State {
	st := cloneState(raw)

	st.SchemaVersion = model.SchemaVersion
	st.FileType = model.StateFileType
	st.Settings = st.Settings.Clamp()

	stripLegacyCards(&st)
	normalizeGroups(&st)
	inferGroupsFromReferences(&st)
	ensureDefaultGroup(&st)
	normalizeCards(&st)
	renumberBusinessIDs(&st)
	normalizeSections(&st)
	normalizeAlertStates(&st)
	normalizeHistory(&st)
	repairLayout(&st)

	return st
}

func stripLegacyCards(st *model.State) {
	kept := st.Cards[:0]
	for _, c := range st.Cards {
		if c.ID == "" || strings.HasPrefix(c.ID, legacySamplePrefix) {
			continue
		}
		if !model.IsValidCardType(c.Type) {
			// Unknown type can never be refreshed or rendered.
			continue
		}
		kept = append(kept, c)
	}
	st.Cards = kept
}

func normalizeGroups(st *model.State) {
	seen := make(map[string]bool)
	kept := st.Groups[:0]
	for _, g := range st.Groups {
		g.Name = strings.TrimSpace(g.Name)
		if g.Name == "" || seen[g.Name] {
			continue
		}
		if model.IsReservedGroupName(g.Name) {
			// The sentinel view name is never a real group.
			g.Name = g.Name + " (group)"
			if seen[g.Name] {
				continue
			}
		}
		if _, err := model.ParseGroupID(g.ID); err != nil {
			g.ID = model.NextGroupID(kept)
		}
		seen[g.Name] = true
		kept = append(kept, g)
	}
	st.Groups = kept
	sort.SliceStable(st.Groups, func(i, j int) bool {
		if st.Groups[i].Order != st.Groups[j].Order {
			return st.Groups[i].Order < st.Groups[j].Order
		}
		return st.Groups[i].ID < st.Groups[j].ID
	})
	for i := range st.Groups {
		st.Groups[i].Order = i
	}
}

// inferGroupsFromReferences creates a group for every unknown name a card or
// section still points at, instead of orphaning the reference.
func inferGroupsFromReferences(st *model.State) {
	known := make(map[string]bool, len(st.Groups))
	for _, g := range st.Groups {
		known[g.Name] = true
	}
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || known[name] || model.IsReservedGroupName(name) {
			return
		}
		st.Groups = append(st.Groups, model.GroupEntity{
			ID:    model.NextGroupID(st.Groups),
			Name:  name,
			Order: len(st.Groups),
		})
		known[name] = true
	}
	for _, c := range st.Cards {
		add(c.Group)
	}
	for _, sec := range st.Sections {
		add(sec.Group)
	}
}

func ensureDefaultGroup(st *model.State) {
	if len(st.Groups) == 0 {
		st.Groups = append(st.Groups, model.GroupEntity{ID: model.FormatGroupID(1), Name: "Default"})
	}
}

func normalizeCards(st *model.State) {
	defaultGroup := st.Groups[0].Name
	for i := range st.Cards {
		c := &st.Cards[i]
		if strings.TrimSpace(c.Group) == "" || model.IsReservedGroupName(c.Group) {
			c.Group = defaultGroup
		}
		if !model.IsValidCardSize(c.UIConfig.Size) {
			c.UIConfig.Size = model.CardSize1x1
		}
		// Reconcile the scoped map with the legacy mirror: an explicit
		// "all" entry wins, otherwise it is seeded from ui_config.
		if pos, ok := c.LayoutPositions[layout.ScopeAll]; ok {
			c.UIConfig.X = pos.X
			c.UIConfig.Y = pos.Y
		} else {
			layout.SetPosition(c, layout.ScopeAll, model.Position{X: c.UIConfig.X, Y: c.UIConfig.Y})
		}
		// Drop scope entries for groups that no longer exist.
		for key := range c.LayoutPositions {
			if name, isGroup := layout.ScopeGroupName(key); isGroup {
				if st.GroupByName(name) == nil {
					delete(c.LayoutPositions, key)
				}
			}
		}
	}
}

// renumberBusinessIDs assigns dense per-group human-facing ids: cards are
// ordered by (sort order, id) within their group and numbered from 1.
func renumberBusinessIDs(st *model.State) {
	byGroup := make(map[string][]int)
	for i := range st.Cards {
		if st.Cards[i].Visible() {
			byGroup[st.Cards[i].Group] = append(byGroup[st.Cards[i].Group], i)
		}
	}
	for _, indices := range byGroup {
		sort.SliceStable(indices, func(a, b int) bool {
			ca, cb := &st.Cards[indices[a]], &st.Cards[indices[b]]
			if ca.SortOrder != cb.SortOrder {
				return ca.SortOrder < cb.SortOrder
			}
			return ca.ID < cb.ID
		})
		for n, idx := range indices {
			st.Cards[idx].SortOrder = n
			st.Cards[idx].BusinessID = n + 1
		}
	}
}

func normalizeSections(st *model.State) {
	columns := st.Settings.DashboardColumns
	kept := st.Sections[:0]
	for _, sec := range st.Sections {
		if st.GroupByName(sec.Group) == nil {
			continue
		}
		if sec.AfterRow < 0 {
			sec.AfterRow = 0
		}
		sec.StartCol = model.ClampInt(sec.StartCol, 0, columns-1)
		sec.SpanCol = model.ClampInt(sec.SpanCol, 1, columns-sec.StartCol)
		kept = append(kept, sec)
	}
	st.Sections = kept
}

// normalizeAlertStates drops state for vanished cards but never resets
// surviving state: trigger history must outlive refresh cycles.
func normalizeAlertStates(st *model.State) {
	if st.AlertStates == nil {
		st.AlertStates = make(map[string]model.CardAlertState)
		return
	}
	for id := range st.AlertStates {
		if st.CardByID(id) == nil {
			delete(st.AlertStates, id)
		}
	}
}

func normalizeHistory(st *model.State) {
	limit := st.Settings.ExecutionHistoryLimit
	if st.History == nil {
		st.History = make(map[string]*history.Buffer)
	}
	for id, buf := range st.History {
		if st.CardByID(id) == nil {
			delete(st.History, id)
			continue
		}
		buf = history.Normalize(buf, limit, limit)
		st.History[id] = buf
	}
}

// repairLayout restores the no-overlap invariant in every scope without
// moving cards that are already valid.
func repairLayout(st *model.State) {
	columns := st.Settings.DashboardColumns
	scopes := []string{layout.ScopeAll}
	for _, g := range st.Groups {
		scopes = append(scopes, layout.GroupScope(g.Name))
	}
	for _, scope := range scopes {
		order := scopeOrder(st.Cards, scope)
		for _, idx := range order {
			layout.RelayoutCardIfNeeded(st.Cards, &st.Cards[idx], columns, scope)
		}
	}
}

// scopeOrder yields the scope's card indices in the deterministic layout
// order (row, column, sort order, id) so repair resolves collisions the same
// way every load.
func scopeOrder(cards []model.Card, scope string) []int {
	var indices []int
	for i := range cards {
		if layout.InScope(&cards[i], scope) {
			indices = append(indices, i)
		}
	}
	sort.SliceStable(indices, func(a, b int) bool {
		pa, pb := layout.PositionOf(&cards[indices[a]], scope), layout.PositionOf(&cards[indices[b]], scope)
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
		if pa.X != pb.X {
			return pa.X < pb.X
		}
		if cards[indices[a]].SortOrder != cards[indices[b]].SortOrder {
			return cards[indices[a]].SortOrder < cards[indices[b]].SortOrder
		}
		return cards[indices[a]].ID < cards[indices[b]].ID
	})
	return indices
}
