// Package scheduler coordinates card refreshes: a FIFO queue drained under
// a hard concurrency ceiling, with per-card in-flight deduplication. It is
// the only place where multiple script executions overlap.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/alert"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/history"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/notify"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/payload"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/runner"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/store"
)

type Scheduler struct {
	store    *store.Store
	runner   runner.ScriptRunner
	notifier notify.Notifier
	logger   zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	queue    []string // card ids, FIFO dispatch order
	inflight map[string]bool
	active   int

	wg sync.WaitGroup
}

func New(st *store.Store, r runner.ScriptRunner, n notify.Notifier, logger zerolog.Logger) *Scheduler {
	if n == nil {
		n = notify.Nop{}
	}
	return &Scheduler{
		store:    st,
		runner:   r,
		notifier: n,
		logger:   logger,
		now:      time.Now,
		inflight: make(map[string]bool),
	}
}

// Enqueue requests a refresh for one card. A card with a refresh already
// queued or running is a no-op, never a queued duplicate.
func (s *Scheduler) Enqueue(ctx context.Context, cardID string) bool {
	s.mu.Lock()
	if s.inflight[cardID] {
		s.mu.Unlock()
		s.logger.Debug().Str("card_id", cardID).Msg("refresh already in flight, skipping")
		return false
	}
	s.inflight[cardID] = true
	s.queue = append(s.queue, cardID)
	s.mu.Unlock()

	s.drain(ctx)
	return true
}

// RefreshAll enqueues every card the reason's policy selects and returns how
// many were newly queued.
func (s *Scheduler) RefreshAll(ctx context.Context, reason store.RefreshReason) int {
	queued := 0
	for _, c := range s.store.CardsForRefresh(reason) {
		if s.Enqueue(ctx, c.ID) {
			queued++
		}
	}
	s.logger.Info().Str("reason", string(reason)).Int("queued", queued).Msg("bulk refresh")
	return queued
}

// drain starts queued tasks while capacity remains. The ceiling is a hard
// bound on concurrently running scripts, re-read from settings each pass so
// limit changes apply to subsequent dispatches.
func (s *Scheduler) drain(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := s.store.ConcurrencyLimit()
	for s.active < limit && len(s.queue) > 0 {
		cardID := s.queue[0]
		s.queue = s.queue[1:]
		s.active++
		s.wg.Add(1)
		go s.runTask(ctx, cardID)
	}
}

// Wait blocks until every dispatched task has completed. Queued tasks keep
// dispatching as running ones finish.
func (s *Scheduler) Wait() {
	for {
		s.wg.Wait()
		s.mu.Lock()
		idle := len(s.queue) == 0 && s.active == 0
		s.mu.Unlock()
		if idle {
			return
		}
	}
}

// Pending reports queued plus running task counts.
func (s *Scheduler) Pending() (queued, active int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue), s.active
}

func (s *Scheduler) runTask(ctx context.Context, cardID string) {
	defer func() {
		s.mu.Lock()
		s.active--
		delete(s.inflight, cardID)
		s.mu.Unlock()
		// Dispatch successors before signaling completion so Wait cannot
		// observe an empty WaitGroup while work is still queued.
		s.drain(ctx)
		s.wg.Done()
	}()

	card, ok := s.store.Card(cardID)
	if !ok || !card.Visible() {
		return
	}

	executedAt := s.now().UTC().Format(time.RFC3339)
	res, runErr := s.runner.Run(ctx, runner.Request{
		ScriptPath:      card.Script.Path,
		Args:            card.Script.Args,
		InterpreterPath: card.Script.InterpreterPath,
		TimeoutMs:       card.Script.TimeoutMs,
	})

	entry := history.Entry{
		ExecutedAt: executedAt,
		DurationMs: res.DurationMs,
		TimedOut:   res.TimedOut,
		ExitCode:   res.ExitCode,
	}

	if runErr != nil {
		summary := runErr.Error()
		entry.ErrorSummary = &summary
		s.store.RecordExecution(cardID, entry, nil, &summary)
		s.logger.Warn().Str("card_id", cardID).Err(runErr).Msg("script host failure")
		return
	}

	if !res.OK {
		summary := failureSummary(res)
		entry.ErrorSummary = &summary
		s.store.RecordExecution(cardID, entry, nil, &summary)
		s.logger.Debug().Str("card_id", cardID).Str("error", summary).Msg("script failed")
		return
	}

	parsed, parseErr := payload.Parse(card.Type, []byte(res.Stdout), card.FieldMap)
	if parseErr != nil {
		summary := parseErr.Error()
		entry.ErrorSummary = &summary
		s.store.RecordExecution(cardID, entry, nil, &summary)
		s.logger.Debug().Str("card_id", cardID).Str("error", summary).Msg("payload rejected")
		return
	}

	entry.OK = true
	s.evaluateAlerts(&card, parsed)
	s.store.RecordExecution(cardID, entry, parsed, nil)
}

// evaluateAlerts runs the evaluator and delivers fired events. Notification
// failures are logged and swallowed, never retried.
func (s *Scheduler) evaluateAlerts(card *model.Card, parsed *model.Payload) {
	prior := s.store.AlertState(card.ID)
	fired, next := alert.Evaluate(card.Type, parsed, card.Alert, prior, s.now())
	s.store.ApplyAlertState(card.ID, next)

	for _, ev := range fired {
		s.store.PublishAlert(card.ID, ev.ConditionKey, ev.Message)
		title := card.Title
		if title == "" {
			title = card.ID
		}
		if err := s.notifier.Send(title, ev.Message); err != nil {
			s.logger.Warn().Str("card_id", card.ID).Err(err).Msg("notification delivery failed")
		}
	}
}

// failureSummary renders a human-readable reason for a failed run while the
// raw fields stay in the history entry.
func failureSummary(res runner.Result) string {
	if res.TimedOut {
		return fmt.Sprintf("timed out after %dms", res.DurationMs)
	}
	code := -1
	if res.ExitCode != nil {
		code = *res.ExitCode
	}
	firstLine := strings.SplitN(strings.TrimSpace(res.Stderr), "\n", 2)[0]
	if firstLine == "" {
		return fmt.Sprintf("exited with code %d", code)
	}
	return fmt.Sprintf("exited with code %d: %s", code, firstLine)
}
