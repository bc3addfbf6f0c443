package model

import "github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/history"

// Settings clamp bounds. Values outside these ranges are pulled back in
// during normalization, never rejected.
const (
	MinDashboardColumns = 1
	MaxDashboardColumns = 12

	MinRefreshConcurrency = 1
	MaxRefreshConcurrency = 16

	MinExecutionHistoryLimit = 10
	MaxExecutionHistoryLimit = 500
)

const (
	SchemaVersion = 2
	StateFileType = "dashboard_state"
)

type Settings struct {
	DashboardColumns        int `yaml:"dashboard_columns"`
	RefreshConcurrencyLimit int `yaml:"refresh_concurrency_limit"`
	ExecutionHistoryLimit   int `yaml:"execution_history_limit"`
}

// DefaultSettings are applied when a field is missing or zero in loaded data.
func DefaultSettings() Settings {
	return Settings{
		DashboardColumns:        4,
		RefreshConcurrencyLimit: 3,
		ExecutionHistoryLimit:   50,
	}
}

// State is the whole persisted dashboard: the single source of truth the
// store replaces atomically on every mutation.
type State struct {
	SchemaVersion int                        `yaml:"schema_version"`
	FileType      string                     `yaml:"file_type"`
	Settings      Settings                   `yaml:"settings"`
	Cards         []Card                     `yaml:"cards"`
	Groups        []GroupEntity              `yaml:"groups"`
	Sections      []SectionMarker            `yaml:"sections,omitempty"`
	AlertStates   map[string]CardAlertState  `yaml:"alert_states,omitempty"`
	History       map[string]*history.Buffer `yaml:"execution_history,omitempty"`
	UpdatedAt     *string                    `yaml:"updated_at,omitempty"`
}

// CardByID returns a pointer into the state's card slice, or nil.
func (s *State) CardByID(id string) *Card {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i]
		}
	}
	return nil
}

// GroupByName returns a pointer into the state's group slice, or nil.
func (s *State) GroupByName(name string) *GroupEntity {
	for i := range s.Groups {
		if s.Groups[i].Name == name {
			return &s.Groups[i]
		}
	}
	return nil
}

// VisibleCards returns the non-deleted cards in slice order.
func (s *State) VisibleCards() []Card {
	out := make([]Card, 0, len(s.Cards))
	for _, c := range s.Cards {
		if c.Visible() {
			out = append(out, c)
		}
	}
	return out
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp pulls every settings field into its documented range, treating zero
// values as "use the default".
func (s Settings) Clamp() Settings {
	def := DefaultSettings()
	if s.DashboardColumns == 0 {
		s.DashboardColumns = def.DashboardColumns
	}
	if s.RefreshConcurrencyLimit == 0 {
		s.RefreshConcurrencyLimit = def.RefreshConcurrencyLimit
	}
	if s.ExecutionHistoryLimit == 0 {
		s.ExecutionHistoryLimit = def.ExecutionHistoryLimit
	}
	s.DashboardColumns = ClampInt(s.DashboardColumns, MinDashboardColumns, MaxDashboardColumns)
	s.RefreshConcurrencyLimit = ClampInt(s.RefreshConcurrencyLimit, MinRefreshConcurrency, MaxRefreshConcurrency)
	s.ExecutionHistoryLimit = ClampInt(s.ExecutionHistoryLimit, MinExecutionHistoryLimit, MaxExecutionHistoryLimit)
	return s
}
