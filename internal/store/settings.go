package store

import (
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/history"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/layout"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// SetColumns changes the grid width and reflows every scope.
func (s *Store) SetColumns(columns int) {
	s.mutate("set_columns", func(st *model.State) bool {
		columns = model.ClampInt(columns, model.MinDashboardColumns, model.MaxDashboardColumns)
		if columns == st.Settings.DashboardColumns {
			return false
		}
		st.Settings.DashboardColumns = columns
		layout.ReflowForColumns(st.Cards, columns, st.Groups)
		normalizeSections(st)
		return true
	})
}

// SetHistoryLimit resizes every card's execution buffer, keeping the newest
// entries.
func (s *Store) SetHistoryLimit(limit int) {
	s.mutate("set_history_limit", func(st *model.State) bool {
		limit = model.ClampInt(limit, model.MinExecutionHistoryLimit, model.MaxExecutionHistoryLimit)
		if limit == st.Settings.ExecutionHistoryLimit {
			return false
		}
		st.Settings.ExecutionHistoryLimit = limit
		for id, buf := range st.History {
			st.History[id] = buf.WithCapacity(limit)
		}
		return true
	})
}

// SetConcurrencyLimit bounds the refresh scheduler's in-flight ceiling.
func (s *Store) SetConcurrencyLimit(limit int) {
	s.mutate("set_concurrency_limit", func(st *model.State) bool {
		limit = model.ClampInt(limit, model.MinRefreshConcurrency, model.MaxRefreshConcurrency)
		if limit == st.Settings.RefreshConcurrencyLimit {
			return false
		}
		st.Settings.RefreshConcurrencyLimit = limit
		return true
	})
}

// Summarize builds the read model shown by the `state` subcommand.
func (s *Store) Summarize() model.StateSummary {
	st := s.State()

	summary := model.StateSummary{
		Columns:          st.Settings.DashboardColumns,
		ConcurrencyLimit: st.Settings.RefreshConcurrencyLimit,
		HistoryLimit:     st.Settings.ExecutionHistoryLimit,
		CardsByGroup:     make(map[string]int),
	}
	for _, g := range st.Groups {
		summary.Groups = append(summary.Groups, g.Name)
		summary.CardsByGroup[g.Name] = 0
	}
	for _, c := range st.Cards {
		if !c.Visible() {
			continue
		}
		summary.CardCount++
		summary.CardsByGroup[c.Group]++
		if buf, ok := st.History[c.ID]; ok {
			hs := history.Summarize(buf.Recent())
			summary.Executions += hs.Total
			summary.Failures += hs.FailureCount
		}
	}
	return summary
}
