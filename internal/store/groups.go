package store

import (
	"strings"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/layout"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// ensureGroup resolves a group name to an existing group, creating one when
// the name is unknown. Empty and reserved names fall back to the first group.
func (s *Store) ensureGroup(st *model.State, name string) string {
	name = strings.TrimSpace(name)
	if name == "" || model.IsReservedGroupName(name) {
		return st.Groups[0].Name
	}
	if st.GroupByName(name) != nil {
		return name
	}
	st.Groups = append(st.Groups, model.GroupEntity{
		ID:    model.NextGroupID(st.Groups),
		Name:  name,
		Order: len(st.Groups),
	})
	return name
}

// CreateGroup adds an explicitly named group.
func (s *Store) CreateGroup(name string) (model.GroupEntity, *GroupError) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.GroupEntity{}, groupErr(GroupErrEmpty)
	}
	if model.IsReservedGroupName(name) {
		return model.GroupEntity{}, groupErr(GroupErrReserved)
	}

	var created model.GroupEntity
	var duplicate bool
	s.mutate("create_group", func(st *model.State) bool {
		if st.GroupByName(name) != nil {
			duplicate = true
			return false
		}
		created = model.GroupEntity{
			ID:    model.NextGroupID(st.Groups),
			Name:  name,
			Order: len(st.Groups),
		}
		st.Groups = append(st.Groups, created)
		return true
	})
	if duplicate {
		return model.GroupEntity{}, groupErr(GroupErrDuplicate)
	}
	return created, nil
}

// RenameGroup renames a group and rewrites every reference: card membership,
// card group-scope keys, and section bindings.
func (s *Store) RenameGroup(oldName, newName string) *GroupError {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return groupErr(GroupErrEmpty)
	}
	if model.IsReservedGroupName(newName) {
		return groupErr(GroupErrReserved)
	}

	var failure *GroupError
	s.mutate("rename_group", func(st *model.State) bool {
		g := st.GroupByName(oldName)
		if g == nil {
			failure = groupErr(GroupErrNotFound)
			return false
		}
		if oldName == newName {
			return false
		}
		if st.GroupByName(newName) != nil {
			failure = groupErr(GroupErrDuplicate)
			return false
		}

		g.Name = newName
		oldScope, newScope := layout.GroupScope(oldName), layout.GroupScope(newName)
		for i := range st.Cards {
			c := &st.Cards[i]
			if c.Group == oldName {
				c.Group = newName
			}
			if pos, ok := c.LayoutPositions[oldScope]; ok {
				delete(c.LayoutPositions, oldScope)
				c.LayoutPositions[newScope] = pos
			}
		}
		for i := range st.Sections {
			if st.Sections[i].Group == oldName {
				st.Sections[i].Group = newName
			}
		}
		return true
	})
	return failure
}

// DeleteGroup removes a group after migrating its cards and sections to
// target. The last remaining group can never be deleted.
func (s *Store) DeleteGroup(name, target string) *GroupError {
	var failure *GroupError
	s.mutate("delete_group", func(st *model.State) bool {
		g := st.GroupByName(name)
		if g == nil {
			failure = groupErr(GroupErrNotFound)
			return false
		}
		if len(st.Groups) == 1 {
			failure = groupErr(GroupErrLastGroup)
			return false
		}

		hasMembers := false
		for i := range st.Cards {
			if st.Cards[i].Visible() && st.Cards[i].Group == name {
				hasMembers = true
				break
			}
		}
		if !hasMembers {
			for i := range st.Sections {
				if st.Sections[i].Group == name {
					hasMembers = true
					break
				}
			}
		}

		if hasMembers {
			target = strings.TrimSpace(target)
			if target == "" {
				failure = groupErr(GroupErrTargetRequired)
				return false
			}
			if target == name {
				failure = groupErr(GroupErrTargetSame)
				return false
			}
			if st.GroupByName(target) == nil {
				failure = groupErr(GroupErrTargetInvalid)
				return false
			}
		}

		oldScope := layout.GroupScope(name)
		for i := range st.Cards {
			c := &st.Cards[i]
			if c.Group == name {
				c.Group = target
				delete(c.LayoutPositions, oldScope)
				c.SortOrder = nextSortOrder(st, target)
				layout.RelayoutCardIfNeeded(st.Cards, c, st.Settings.DashboardColumns, layout.GroupScope(target))
			}
		}
		kept := st.Sections[:0]
		for _, sec := range st.Sections {
			if sec.Group == name {
				if target == "" {
					continue
				}
				sec.Group = target
			}
			kept = append(kept, sec)
		}
		st.Sections = kept

		groups := st.Groups[:0]
		for _, grp := range st.Groups {
			if grp.Name != name {
				groups = append(groups, grp)
			}
		}
		st.Groups = groups
		for i := range st.Groups {
			st.Groups[i].Order = i
		}
		renumberBusinessIDs(st)
		return true
	})
	return failure
}

// ReorderGroup moves a group to a new index in the tab order.
func (s *Store) ReorderGroup(name string, newIndex int) *GroupError {
	var failure *GroupError
	s.mutate("reorder_group", func(st *model.State) bool {
		from := -1
		for i := range st.Groups {
			if st.Groups[i].Name == name {
				from = i
				break
			}
		}
		if from == -1 {
			failure = groupErr(GroupErrNotFound)
			return false
		}
		newIndex = model.ClampInt(newIndex, 0, len(st.Groups)-1)
		if newIndex == from {
			return false
		}
		g := st.Groups[from]
		st.Groups = append(st.Groups[:from], st.Groups[from+1:]...)
		st.Groups = append(st.Groups[:newIndex], append([]model.GroupEntity{g}, st.Groups[newIndex:]...)...)
		for i := range st.Groups {
			st.Groups[i].Order = i
		}
		return true
	})
	return failure
}
