package store

import (
	"fmt"
	"strings"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/events"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/history"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/layout"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// NewCard are the caller-supplied fields of a card to create.
type NewCard struct {
	Title           string
	Group           string
	Type            model.CardType
	Size            model.CardSize
	Script          model.ScriptConfig
	FieldMap        map[string]string
	RefreshOnStart  bool
	RefreshOnResume bool
	RefreshEverySec int
	Alert           *model.CardAlertConfig
}

// AddCard creates a card, places it in every scope it participates in, and
// returns its id. An unknown group name is created implicitly.
func (s *Store) AddCard(nc NewCard) (string, error) {
	if !model.IsValidCardType(nc.Type) {
		return "", fmt.Errorf("invalid card type: %q", nc.Type)
	}
	if !model.IsValidCardSize(nc.Size) {
		nc.Size = model.CardSize1x1
	}
	id, err := model.GenerateID(model.IDTypeCard)
	if err != nil {
		return "", err
	}

	s.mutate("add_card", func(st *model.State) bool {
		group := s.ensureGroup(st, nc.Group)
		now := s.timestamp()
		card := model.Card{
			ID:              id,
			Title:           nc.Title,
			Group:           group,
			Type:            nc.Type,
			Script:          nc.Script,
			FieldMap:        nc.FieldMap,
			RefreshOnStart:  nc.RefreshOnStart,
			RefreshOnResume: nc.RefreshOnResume,
			RefreshEverySec: nc.RefreshEverySec,
			UIConfig:        model.UIConfig{Size: nc.Size},
			Alert:           nc.Alert,
			SortOrder:       nextSortOrder(st, group),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		st.Cards = append(st.Cards, card)
		placed := &st.Cards[len(st.Cards)-1]
		placeCard(st, placed)
		renumberBusinessIDs(st)
		st.History[id] = history.New(st.Settings.ExecutionHistoryLimit)
		return true
	})
	return id, nil
}

// DuplicateCard clones an existing card next to the original. Runtime data,
// history, and alert state start fresh.
func (s *Store) DuplicateCard(id string) (string, error) {
	newID, err := model.GenerateID(model.IDTypeCard)
	if err != nil {
		return "", err
	}
	var missing bool
	s.mutate("duplicate_card", func(st *model.State) bool {
		src := st.CardByID(id)
		if src == nil || !src.Visible() {
			missing = true
			return false
		}
		now := s.timestamp()
		dup := *src
		dup.ID = newID
		dup.Title = src.Title + " (copy)"
		dup.LayoutPositions = nil
		dup.Runtime = model.CardRuntime{}
		dup.SortOrder = nextSortOrder(st, src.Group)
		dup.CreatedAt = now
		dup.UpdatedAt = now
		if src.Alert != nil {
			a := *src.Alert
			dup.Alert = &a
		}

		st.Cards = append(st.Cards, dup)
		placed := &st.Cards[len(st.Cards)-1]
		placeCard(st, placed)
		renumberBusinessIDs(st)
		st.History[newID] = history.New(st.Settings.ExecutionHistoryLimit)
		return true
	})
	if missing {
		return "", fmt.Errorf("card not found: %s", id)
	}
	return newID, nil
}

// DeleteCard soft-deletes a card and renumbers its group.
func (s *Store) DeleteCard(id string) error {
	ok := s.mutate("delete_card", func(st *model.State) bool {
		c := st.CardByID(id)
		if c == nil || !c.Visible() {
			return false
		}
		c.Deleted = true
		c.UpdatedAt = s.timestamp()
		delete(st.History, id)
		delete(st.AlertStates, id)
		renumberBusinessIDs(st)
		return true
	})
	if !ok {
		return fmt.Errorf("card not found: %s", id)
	}
	return nil
}

// UpdateCard applies fn to a card under the store lock. General-purpose
// config edits (title, script, refresh policy, alert config) go through here.
func (s *Store) UpdateCard(id string, fn func(c *model.Card)) error {
	ok := s.mutate("update_card", func(st *model.State) bool {
		c := st.CardByID(id)
		if c == nil || !c.Visible() {
			return false
		}
		fn(c)
		c.UpdatedAt = s.timestamp()
		return true
	})
	if !ok {
		return fmt.Errorf("card not found: %s", id)
	}
	return nil
}

// SetCardSize resizes a card and, when the new footprint no longer fits,
// relocates it to the nearest valid placement in every scope.
func (s *Store) SetCardSize(id string, size model.CardSize, interactive bool) error {
	if !model.IsValidCardSize(size) {
		return fmt.Errorf("invalid card size: %q", size)
	}
	ok := s.mutate("set_card_size", func(st *model.State) bool {
		c := st.CardByID(id)
		if c == nil || !c.Visible() {
			return false
		}
		c.UIConfig.Size = size
		c.UpdatedAt = s.timestamp()
		if !interactive {
			layout.RelayoutCardIfNeeded(st.Cards, c, st.Settings.DashboardColumns, layout.ScopeAll)
			layout.RelayoutCardIfNeeded(st.Cards, c, st.Settings.DashboardColumns, layout.GroupScope(c.Group))
		}
		return true
	})
	if !ok {
		return fmt.Errorf("card not found: %s", id)
	}
	return nil
}

// MoveCard delegates to the layout engine. Rejection means no state change
// and no notification.
func (s *Store) MoveCard(id string, x, y int, scope string) bool {
	return s.mutate("move_card", func(st *model.State) bool {
		return layout.MoveCard(st.Cards, id, x, y, st.Settings.DashboardColumns, scope)
	})
}

// MoveCardToGroup reassigns a card's group, renumbering both groups.
func (s *Store) MoveCardToGroup(id, group string) error {
	ok := s.mutate("move_card_to_group", func(st *model.State) bool {
		c := st.CardByID(id)
		if c == nil || !c.Visible() {
			return false
		}
		group = strings.TrimSpace(group)
		if group == "" {
			return false
		}
		target := s.ensureGroup(st, group)
		if c.Group == target {
			return false
		}
		delete(c.LayoutPositions, layout.GroupScope(c.Group))
		c.Group = target
		c.SortOrder = nextSortOrder(st, target)
		c.UpdatedAt = s.timestamp()
		layout.RelayoutCardIfNeeded(st.Cards, c, st.Settings.DashboardColumns, layout.GroupScope(target))
		renumberBusinessIDs(st)
		return true
	})
	if !ok {
		return fmt.Errorf("cannot move card %s to group %q", id, group)
	}
	return nil
}

// ApplyAlertState replaces a card's alert state after evaluation.
func (s *Store) ApplyAlertState(id string, next model.CardAlertState) {
	s.mutate("apply_alert_state", func(st *model.State) bool {
		if st.CardByID(id) == nil {
			return false
		}
		st.AlertStates[id] = next.Clone()
		return true
	})
}

// RecordExecution applies the merged outcome of one script run: the history
// entry always lands; on success the payload replaces the cached one; on
// failure the error summary is surfaced while the last good payload stays.
func (s *Store) RecordExecution(id string, entry history.Entry, payload *model.Payload, errSummary *string) {
	applied := s.mutate("record_execution", func(st *model.State) bool {
		c := st.CardByID(id)
		if c == nil {
			return false
		}
		executedAt := entry.ExecutedAt
		c.Runtime.LastRunAt = &executedAt
		if payload != nil {
			c.Runtime.LastPayload = payload
			c.Runtime.LastError = nil
		} else {
			c.Runtime.LastError = errSummary
		}

		buf, ok := st.History[id]
		if !ok {
			buf = history.New(st.Settings.ExecutionHistoryLimit)
			st.History[id] = buf
		}
		buf.Append(entry)
		return true
	})
	if applied {
		s.bus.Publish(events.EventCardRefreshed, map[string]interface{}{
			"card_id": id,
			"ok":      entry.OK,
		})
	}
}

func nextSortOrder(st *model.State, group string) int {
	next := 0
	for i := range st.Cards {
		c := &st.Cards[i]
		if c.Visible() && c.Group == group && c.SortOrder >= next {
			next = c.SortOrder + 1
		}
	}
	return next
}

// placeCard finds collision-free slots for a new card in the global scope
// and its group scope.
func placeCard(st *model.State, c *model.Card) {
	columns := st.Settings.DashboardColumns
	layout.SetPosition(c, layout.ScopeAll,
		layout.FindPlacement(st.Cards, c.UIConfig.Size, columns, 0, c.ID, layout.ScopeAll))
	layout.SetPosition(c, layout.GroupScope(c.Group),
		layout.FindPlacement(st.Cards, c.UIConfig.Size, columns, 0, c.ID, layout.GroupScope(c.Group)))
}
