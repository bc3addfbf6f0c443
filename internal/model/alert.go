package model

// CardAlertConfig is user intent: which conditions to watch and how often a
// given condition may fire.
type CardAlertConfig struct {
	Enabled             bool     `yaml:"enabled"`
	CooldownSec         int      `yaml:"cooldown_sec"`
	UpperThreshold      *float64 `yaml:"upper_threshold,omitempty"`
	LowerThreshold      *float64 `yaml:"lower_threshold,omitempty"`
	StatusChangeEnabled bool     `yaml:"status_change_enabled"`
}

// CardAlertState is derived alert history. It persists across refresh cycles
// and is only reset when normalized from missing input.
type CardAlertState struct {
	LastStatusState *string          `yaml:"last_status_state,omitempty"`
	LastTriggeredAt map[string]int64 `yaml:"last_triggered_at,omitempty"`
}

// Clone returns a deep copy so evaluator output never aliases stored state.
func (s CardAlertState) Clone() CardAlertState {
	out := CardAlertState{}
	if s.LastStatusState != nil {
		v := *s.LastStatusState
		out.LastStatusState = &v
	}
	if s.LastTriggeredAt != nil {
		out.LastTriggeredAt = make(map[string]int64, len(s.LastTriggeredAt))
		for k, v := range s.LastTriggeredAt {
			out.LastTriggeredAt[k] = v
		}
	}
	return out
}
