package store

import (
	"fmt"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// AddSection creates a divider in a group, clamped to the current grid.
func (s *Store) AddSection(group, title string, afterRow, startCol, spanCol int) (string, error) {
	id, err := model.GenerateID(model.IDTypeSection)
	if err != nil {
		return "", err
	}
	ok := s.mutate("add_section", func(st *model.State) bool {
		if st.GroupByName(group) == nil {
			return false
		}
		columns := st.Settings.DashboardColumns
		if afterRow < 0 {
			afterRow = 0
		}
		startCol = model.ClampInt(startCol, 0, columns-1)
		spanCol = model.ClampInt(spanCol, 1, columns-startCol)
		st.Sections = append(st.Sections, model.SectionMarker{
			ID:       id,
			Group:    group,
			Title:    title,
			AfterRow: afterRow,
			StartCol: startCol,
			SpanCol:  spanCol,
		})
		return true
	})
	if !ok {
		return "", fmt.Errorf("group not found: %q", group)
	}
	return id, nil
}

// UpdateSection edits a divider, re-clamping it to the grid.
func (s *Store) UpdateSection(id string, fn func(sec *model.SectionMarker)) error {
	ok := s.mutate("update_section", func(st *model.State) bool {
		for i := range st.Sections {
			if st.Sections[i].ID != id {
				continue
			}
			sec := &st.Sections[i]
			fn(sec)
			columns := st.Settings.DashboardColumns
			if sec.AfterRow < 0 {
				sec.AfterRow = 0
			}
			sec.StartCol = model.ClampInt(sec.StartCol, 0, columns-1)
			sec.SpanCol = model.ClampInt(sec.SpanCol, 1, columns-sec.StartCol)
			if st.GroupByName(sec.Group) == nil {
				sec.Group = st.Groups[0].Name
			}
			return true
		}
		return false
	})
	if !ok {
		return fmt.Errorf("section not found: %s", id)
	}
	return nil
}

// DeleteSection removes a divider.
func (s *Store) DeleteSection(id string) error {
	ok := s.mutate("delete_section", func(st *model.State) bool {
		for i := range st.Sections {
			if st.Sections[i].ID == id {
				st.Sections = append(st.Sections[:i], st.Sections[i+1:]...)
				return true
			}
		}
		return false
	})
	if !ok {
		return fmt.Errorf("section not found: %s", id)
	}
	return nil
}
