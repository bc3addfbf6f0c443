package store

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

func TestSectionLifecycle(t *testing.T) {
	s := New(model.State{}, nil, zerolog.Nop())
	_, gerr := s.CreateGroup("Work")
	require.Nil(t, gerr)

	id, err := s.AddSection("Work", "Morning", 1, 1, 2)
	require.NoError(t, err)

	st := s.State()
	require.Len(t, st.Sections, 1)
	sec := st.Sections[0]
	assert.Equal(t, id, sec.ID)
	assert.Equal(t, "Morning", sec.Title)
	assert.Equal(t, 1, sec.AfterRow)
	assert.Equal(t, 1, sec.StartCol)
	assert.Equal(t, 2, sec.SpanCol)

	require.NoError(t, s.UpdateSection(id, func(sec *model.SectionMarker) {
		sec.Title = "Evening"
		sec.AfterRow = -2
	}))
	st = s.State()
	assert.Equal(t, "Evening", st.Sections[0].Title)
	assert.Equal(t, 0, st.Sections[0].AfterRow, "negative row clamped")

	require.NoError(t, s.DeleteSection(id))
	assert.Empty(t, s.State().Sections)
	require.Error(t, s.DeleteSection(id))
}

func TestAddSectionClampsToGrid(t *testing.T) {
	// 4 columns: a span starting at column 3 cannot exceed 1.
	s := New(model.State{}, nil, zerolog.Nop())
	_, gerr := s.CreateGroup("Work")
	require.Nil(t, gerr)

	id, err := s.AddSection("Work", "", 0, 99, 99)
	require.NoError(t, err)

	sec := s.State().Sections[0]
	assert.Equal(t, id, sec.ID)
	assert.Equal(t, 3, sec.StartCol)
	assert.Equal(t, 1, sec.SpanCol)

	_, err = s.AddSection("Nope", "", 0, 0, 1)
	require.Error(t, err, "unknown group rejected")
}

func TestSectionsFollowGroupRename(t *testing.T) {
	s := New(model.State{}, nil, zerolog.Nop())
	_, gerr := s.CreateGroup("Work")
	require.Nil(t, gerr)
	_, err := s.AddSection("Work", "x", 0, 0, 1)
	require.NoError(t, err)

	require.Nil(t, s.RenameGroup("Work", "Office"))
	assert.Equal(t, "Office", s.State().Sections[0].Group)

	// Deleting the group with a target migrates its sections.
	require.Nil(t, s.DeleteGroup("Office", "Default"))
	assert.Equal(t, "Default", s.State().Sections[0].Group)
}
