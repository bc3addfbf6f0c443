// Package store is the dashboard's single source of truth. Every mutation
// is a pure function of (old state, operation) applied under one lock as a
// whole-snapshot replacement; subscribers observe completed transitions only.
package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/events"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/fileio"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/history"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
)

type Store struct {
	mu     sync.RWMutex
	state  model.State
	bus    *events.Bus
	logger zerolog.Logger
	now    func() time.Time
}

// New wraps an initial state. The input is normalized so the store only
// ever holds canonical state.
func New(initial model.State, bus *events.Bus, logger zerolog.Logger) *Store {
	if bus == nil {
		bus = events.NewBus(0)
	}
	return &Store{
		state:  Normalize(initial),
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

// Load reads and normalizes a state file. A corrupt file is quarantined and
// the .bak restored when possible; with nothing to restore, a fresh default
// state is returned.
func Load(path string, logger zerolog.Logger) (model.State, error) {
	var raw model.State
	err := fileio.ReadYAML(path, &raw)
	if err == nil {
		return Normalize(raw), nil
	}

	if quarantined, qerr := fileio.Quarantine(path); qerr == nil {
		logger.Warn().Str("path", path).Str("quarantined", quarantined).Msg("state file corrupt, quarantined")
		if rerr := fileio.RestoreFromBackup(path); rerr == nil {
			var restored model.State
			if rerr = fileio.ReadYAML(path, &restored); rerr == nil {
				return Normalize(restored), nil
			}
		}
	}
	return Normalize(model.State{}), err
}

// Save writes the current snapshot atomically.
func (s *Store) Save(path string) error {
	snapshot := s.State()
	return fileio.AtomicWrite(path, &snapshot)
}

// State returns a deep copy of the current snapshot. Readers never see a
// partially applied mutation.
func (s *Store) State() model.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Replace swaps in an externally produced state (e.g. a reloaded file),
// normalizing it first.
func (s *Store) Replace(next model.State) {
	s.mu.Lock()
	s.state = Normalize(next)
	s.mu.Unlock()
	s.bus.Publish(events.EventStateChanged, map[string]interface{}{"op": "replace"})
}

// Subscribe registers a subscriber on the store's bus.
func (s *Store) Subscribe(eventType events.EventType, fn events.Subscriber) func() {
	return s.bus.Subscribe(eventType, fn)
}

// mutate runs op against a working copy of the state. If op reports success
// the copy replaces the snapshot atomically and subscribers are notified.
func (s *Store) mutate(kind string, op func(st *model.State) bool) bool {
	s.mu.Lock()
	next := cloneState(s.state)
	if !op(&next) {
		s.mu.Unlock()
		return false
	}
	ts := s.now().UTC().Format(time.RFC3339)
	next.UpdatedAt = &ts
	s.state = next
	s.mu.Unlock()

	s.bus.Publish(events.EventStateChanged, map[string]interface{}{"op": kind})
	return true
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// cloneState deep-copies everything mutations touch so snapshots never
// share mutable structure.
func cloneState(st model.State) model.State {
	out := st

	out.Cards = make([]model.Card, len(st.Cards))
	copy(out.Cards, st.Cards)
	for i := range out.Cards {
		c := &out.Cards[i]
		if c.LayoutPositions != nil {
			positions := make(map[string]model.Position, len(c.LayoutPositions))
			for k, v := range c.LayoutPositions {
				positions[k] = v
			}
			c.LayoutPositions = positions
		}
		if c.FieldMap != nil {
			fm := make(map[string]string, len(c.FieldMap))
			for k, v := range c.FieldMap {
				fm[k] = v
			}
			c.FieldMap = fm
		}
		if c.Script.Args != nil {
			c.Script.Args = append([]string(nil), c.Script.Args...)
		}
		if c.Alert != nil {
			a := *c.Alert
			if a.UpperThreshold != nil {
				v := *a.UpperThreshold
				a.UpperThreshold = &v
			}
			if a.LowerThreshold != nil {
				v := *a.LowerThreshold
				a.LowerThreshold = &v
			}
			c.Alert = &a
		}
		if c.Runtime.LastPayload != nil {
			p := *c.Runtime.LastPayload
			c.Runtime.LastPayload = &p
		}
		if c.Runtime.LastError != nil {
			v := *c.Runtime.LastError
			c.Runtime.LastError = &v
		}
		if c.Runtime.LastRunAt != nil {
			v := *c.Runtime.LastRunAt
			c.Runtime.LastRunAt = &v
		}
	}

	out.Groups = append([]model.GroupEntity(nil), st.Groups...)
	out.Sections = append([]model.SectionMarker(nil), st.Sections...)

	if st.AlertStates != nil {
		out.AlertStates = make(map[string]model.CardAlertState, len(st.AlertStates))
		for k, v := range st.AlertStates {
			out.AlertStates[k] = v.Clone()
		}
	}
	if st.History != nil {
		out.History = make(map[string]*history.Buffer, len(st.History))
		for k, v := range st.History {
			b := *v
			b.Entries = append([]history.Entry(nil), v.Entries...)
			out.History[k] = &b
		}
	}
	return out
}
