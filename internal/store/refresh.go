package store

import (
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/events"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

// RefreshReason selects which cards a bulk refresh targets.
type RefreshReason string

const (
	RefreshStart  RefreshReason = "start"
	RefreshResume RefreshReason = "resume"
	RefreshManual RefreshReason = "manual"
)

// CardsForRefresh returns the cards a bulk refresh of the given reason
// should run: start and resume honor the per-card opt-ins, manual takes
// every visible card.
func (s *Store) CardsForRefresh(reason RefreshReason) []model.Card {
	st := s.State()
	var out []model.Card
	for _, c := range st.Cards {
		if !c.Visible() {
			continue
		}
		switch reason {
		case RefreshStart:
			if c.RefreshOnStart {
				out = append(out, c)
			}
		case RefreshResume:
			if c.RefreshOnResume {
				out = append(out, c)
			}
		case RefreshManual:
			out = append(out, c)
		}
	}
	return out
}

// Card returns a copy of one card, visible or not.
func (s *Store) Card(id string) (model.Card, bool) {
	st := s.State()
	for _, c := range st.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return model.Card{}, false
}

// AlertState returns a copy of a card's alert state.
func (s *Store) AlertState(id string) model.CardAlertState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AlertStates[id].Clone()
}

// ConcurrencyLimit reports the effective (clamped) scheduler ceiling.
func (s *Store) ConcurrencyLimit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ClampInt(s.state.Settings.RefreshConcurrencyLimit,
		model.MinRefreshConcurrency, model.MaxRefreshConcurrency)
}

// PublishAlert announces a fired alert on the store's bus.
func (s *Store) PublishAlert(cardID, conditionKey, message string) {
	s.bus.Publish(events.EventAlertTriggered, map[string]interface{}{
		"card_id":       cardID,
		"condition_key": conditionKey,
		"message":       message,
	})
}
