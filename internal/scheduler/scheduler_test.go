package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/runner"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/store"
)

const okScalarOutput = `{"type":"scalar","data":{"value":1}}`

// fakeRunner scripts results by script path and tracks how many runs
// overlap.
type fakeRunner struct {
	mu      sync.Mutex
	active  int
	maxSeen int
	delay   time.Duration
	started chan string
	release chan struct{}
	results map[string]runner.Result
}

func (f *fakeRunner) Run(_ context.Context, req runner.Request) (runner.Result, error) {
	f.mu.Lock()
	f.active++
	if f.active > f.maxSeen {
		f.maxSeen = f.active
	}
	f.mu.Unlock()

	if f.started != nil {
		f.started <- req.ScriptPath
	}
	if f.release != nil {
		<-f.release
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.active--
	f.mu.Unlock()

	if res, ok := f.results[req.ScriptPath]; ok {
		return res, nil
	}
	return runner.Result{OK: true, Stdout: okScalarOutput, DurationMs: 5}, nil
}

func newTestStore(t *testing.T, limit int, cards ...model.Card) *store.Store {
	t.Helper()
	return store.New(model.State{
		Settings: model.Settings{
			DashboardColumns:        4,
			RefreshConcurrencyLimit: limit,
			ExecutionHistoryLimit:   10,
		},
		Cards: cards,
	}, nil, zerolog.Nop())
}

func scalarCard(id string) model.Card {
	return model.Card{
		ID:     id,
		Title:  id,
		Group:  "Default",
		Type:   model.CardTypeScalar,
		Script: model.ScriptConfig{Path: id + ".py"},
	}
}

func TestConcurrencyCeiling(t *testing.T) {
	cards := []model.Card{
		scalarCard("card_1"), scalarCard("card_2"), scalarCard("card_3"),
		scalarCard("card_4"), scalarCard("card_5"), scalarCard("card_6"),
	}
	st := newTestStore(t, 2, cards...)
	fr := &fakeRunner{delay: 20 * time.Millisecond}
	s := New(st, fr, nil, zerolog.Nop())

	queued := s.RefreshAll(context.Background(), store.RefreshManual)
	require.Equal(t, 6, queued)
	s.Wait()

	assert.LessOrEqual(t, fr.maxSeen, 2, "concurrent runs exceeded the limit")
	for _, c := range cards {
		got, ok := st.Card(c.ID)
		require.True(t, ok)
		require.NotNil(t, got.Runtime.LastRunAt, "card %s never ran", c.ID)
		require.NotNil(t, got.Runtime.LastPayload, "card %s has no payload", c.ID)
	}

	// Every run lands in history exactly once.
	state := st.State()
	for _, c := range cards {
		require.Equal(t, 1, state.History[c.ID].Size, "history for %s", c.ID)
	}
}

func TestEnqueueDeduplicatesInflight(t *testing.T) {
	st := newTestStore(t, 2, scalarCard("card_1"))
	fr := &fakeRunner{
		started: make(chan string, 1),
		release: make(chan struct{}),
	}
	s := New(st, fr, nil, zerolog.Nop())
	ctx := context.Background()

	require.True(t, s.Enqueue(ctx, "card_1"))
	<-fr.started

	// The same card is already running: no duplicate is queued.
	assert.False(t, s.Enqueue(ctx, "card_1"))
	queued, active := s.Pending()
	assert.Equal(t, 0, queued)
	assert.Equal(t, 1, active)

	close(fr.release)
	s.Wait()

	// After completion the card is eligible again.
	assert.True(t, s.Enqueue(ctx, "card_1"))
	s.Wait()
}

func TestRefreshAllReasonSelection(t *testing.T) {
	onStart := scalarCard("card_start")
	onStart.RefreshOnStart = true
	onResume := scalarCard("card_resume")
	onResume.RefreshOnResume = true
	neither := scalarCard("card_neither")

	tests := []struct {
		reason store.RefreshReason
		want   int
	}{
		{store.RefreshStart, 1},
		{store.RefreshResume, 1},
		{store.RefreshManual, 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			st := newTestStore(t, 3, onStart, onResume, neither)
			s := New(st, &fakeRunner{}, nil, zerolog.Nop())
			got := s.RefreshAll(context.Background(), tt.reason)
			s.Wait()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFailedRunKeepsLastGoodPayload(t *testing.T) {
	st := newTestStore(t, 1, scalarCard("card_1"))
	exitCode := 1
	fr := &fakeRunner{results: map[string]runner.Result{}}
	s := New(st, fr, nil, zerolog.Nop())
	ctx := context.Background()

	require.True(t, s.Enqueue(ctx, "card_1"))
	s.Wait()
	card, _ := st.Card("card_1")
	require.NotNil(t, card.Runtime.LastPayload)
	require.Equal(t, 1.0, card.Runtime.LastPayload.Scalar.Value)

	// Now the script starts failing.
	fr.mu.Lock()
	fr.results["card_1.py"] = runner.Result{
		OK: false, ExitCode: &exitCode, Stderr: "boom", DurationMs: 3,
	}
	fr.mu.Unlock()

	require.True(t, s.Enqueue(ctx, "card_1"))
	s.Wait()

	card, _ = st.Card("card_1")
	require.NotNil(t, card.Runtime.LastError)
	assert.Contains(t, *card.Runtime.LastError, "exited with code 1")
	// The last good payload survives the failure.
	require.NotNil(t, card.Runtime.LastPayload)
	assert.Equal(t, 1.0, card.Runtime.LastPayload.Scalar.Value)

	state := st.State()
	recent := state.History["card_1"].Recent()
	require.Len(t, recent, 2)
	assert.False(t, recent[0].OK)
	assert.True(t, recent[1].OK)
}

func TestUnparsableOutputIsAFailure(t *testing.T) {
	st := newTestStore(t, 1, scalarCard("card_1"))
	fr := &fakeRunner{results: map[string]runner.Result{
		"card_1.py": {OK: true, Stdout: "not json", DurationMs: 2},
	}}
	s := New(st, fr, nil, zerolog.Nop())

	require.True(t, s.Enqueue(context.Background(), "card_1"))
	s.Wait()

	card, _ := st.Card("card_1")
	require.NotNil(t, card.Runtime.LastError)
	assert.Nil(t, card.Runtime.LastPayload)

	state := st.State()
	recent := state.History["card_1"].Recent()
	require.Len(t, recent, 1)
	assert.False(t, recent[0].OK)
	require.NotNil(t, recent[0].ErrorSummary)
}

func TestDeletedCardIsSkipped(t *testing.T) {
	gone := scalarCard("card_gone")
	gone.Deleted = true
	st := newTestStore(t, 1, gone)
	fr := &fakeRunner{}
	s := New(st, fr, nil, zerolog.Nop())

	s.Enqueue(context.Background(), "card_gone")
	s.Wait()

	card, ok := st.Card("card_gone")
	require.True(t, ok)
	assert.Nil(t, card.Runtime.LastRunAt)
}

func TestFailureSummary(t *testing.T) {
	code := func(n int) *int { return &n }
	tests := []struct {
		name string
		res  runner.Result
		want string
	}{
		{"timeout", runner.Result{TimedOut: true, DurationMs: 10000}, "timed out after 10000ms"},
		{"exit with stderr", runner.Result{ExitCode: code(2), Stderr: "first\nsecond"}, "exited with code 2: first"},
		{"exit no stderr", runner.Result{ExitCode: code(3)}, "exited with code 3"},
		{"no exit code", runner.Result{}, "exited with code -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failureSummary(tt.res))
		})
	}
}
