// Package daemon runs the dashboard core as a long-lived process: it owns
// the state file, schedules card refreshes, and reacts to external edits.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/events"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/lock"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/notify"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/runner"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/scheduler"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/store"
)

// Daemon wires the store, scheduler, and watchers together around one
// state file.
type Daemon struct {
	cfg    model.Config
	logger zerolog.Logger

	statePath string
	fileLock  *lock.FileLock
	bus       *events.Bus
	store     *store.Store
	sched     *scheduler.Scheduler
	watcher   *fsnotify.Watcher
	ticker    *time.Ticker

	lastSave   time.Time
	lastSaveMu sync.Mutex

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	shutdown sync.Once
}

// New loads the state file (creating default state when absent) and builds
// the daemon. The notifier may be nil to disable desktop delivery.
func New(cfg model.Config, notifier notify.Notifier, logger zerolog.Logger) (*Daemon, error) {
	statePath := cfg.Dashboard.StatePath
	if statePath == "" {
		return nil, fmt.Errorf("dashboard.state_path is required")
	}
	if err := os.MkdirAll(filepath.Dir(statePath), 0755); err != nil {
		return nil, fmt.Errorf("ensure state dir: %w", err)
	}

	bus := events.NewBus(100)

	var initial model.State
	if _, err := os.Stat(statePath); err == nil {
		initial, err = store.Load(statePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("state file unreadable, starting from recovered state")
		}
	}

	st := store.New(initial, bus, logger)
	run := &hostRunner{
		inner:            runner.NewPythonRunner(),
		pythonPath:       cfg.Runner.PythonPath,
		defaultTimeoutMs: cfg.Runner.DefaultTimeoutMs,
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		cfg:       cfg,
		logger:    logger,
		statePath: statePath,
		fileLock:  lock.NewFileLock(statePath + ".lock"),
		bus:       bus,
		store:     st,
		sched:     scheduler.New(st, run, notifier, logger),
		ticker:    time.NewTicker(scanInterval(cfg)),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

func scanInterval(cfg model.Config) time.Duration {
	sec := cfg.Watcher.ScanIntervalSec
	if sec <= 0 {
		sec = 10
	}
	return time.Duration(sec) * time.Second
}

// Store exposes the state container to the presentation layer.
func (d *Daemon) Store() *store.Store { return d.store }

// Scheduler exposes the refresh queue.
func (d *Daemon) Scheduler() *scheduler.Scheduler { return d.sched }

// Run blocks until shutdown completes.
func (d *Daemon) Run() error {
	if err := d.fileLock.TryLock(); err != nil {
		return fmt.Errorf("daemon lock: %w", err)
	}
	d.logger.Info().Int("pid", os.Getpid()).Str("state", d.statePath).Msg("daemon starting")

	// Persist every completed transition.
	unsubscribe := d.bus.Subscribe(events.EventStateChanged, func(events.Event) {
		d.persist()
	})
	defer unsubscribe()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.fileLock.Unlock()
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	d.watcher = watcher
	if err := watcher.Add(filepath.Dir(d.statePath)); err != nil {
		d.cleanup()
		return fmt.Errorf("watch state dir: %w", err)
	}

	d.persist()
	d.sched.RefreshAll(d.ctx, store.RefreshStart)

	d.wg.Add(2)
	go d.watchLoop()
	go d.tickLoop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	for {
		sig := <-sigCh
		if sig == syscall.SIGUSR1 {
			// Host resume notification.
			d.sched.RefreshAll(d.ctx, store.RefreshResume)
			continue
		}
		d.logger.Info().Str("signal", sig.String()).Msg("shutting down")
		break
	}

	d.cleanup()
	return nil
}

// watchLoop reloads the state file when something other than the daemon
// writes it, debounced against the daemon's own saves.
func (d *Daemon) watchLoop() {
	defer d.wg.Done()

	debounce := time.Duration(d.cfg.Watcher.DebounceSec * float64(time.Second))
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-d.ctx.Done():
			return
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != d.statePath || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if d.recentOwnSave() {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			d.reload()
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// tickLoop enqueues interval refreshes for cards that are due.
func (d *Daemon) tickLoop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case <-d.ticker.C:
			d.refreshDueCards()
		}
	}
}

func (d *Daemon) refreshDueCards() {
	now := time.Now().UTC()
	st := d.store.State()
	for _, c := range st.Cards {
		if !c.Visible() || c.RefreshEverySec <= 0 {
			continue
		}
		due := true
		if c.Runtime.LastRunAt != nil {
			if last, err := time.Parse(time.RFC3339, *c.Runtime.LastRunAt); err == nil {
				due = now.Sub(last) >= time.Duration(c.RefreshEverySec)*time.Second
			}
		}
		if due {
			d.sched.Enqueue(d.ctx, c.ID)
		}
	}
}

func (d *Daemon) persist() {
	d.lastSaveMu.Lock()
	d.lastSave = time.Now()
	d.lastSaveMu.Unlock()
	if err := d.store.Save(d.statePath); err != nil {
		d.logger.Error().Err(err).Msg("state save failed")
	}
}

func (d *Daemon) recentOwnSave() bool {
	d.lastSaveMu.Lock()
	defer d.lastSaveMu.Unlock()
	return time.Since(d.lastSave) < 2*time.Second
}

// reload re-imports an externally edited state file through Normalize and
// replaces the snapshot via the store's own operations.
func (d *Daemon) reload() {
	loaded, err := store.Load(d.statePath, d.logger)
	if err != nil {
		d.logger.Warn().Err(err).Msg("external state edit unreadable, keeping current state")
		return
	}
	d.store.Replace(loaded)
	d.logger.Info().Msg("state reloaded after external edit")
}

func (d *Daemon) cleanup() {
	d.shutdown.Do(func() {
		d.cancel()
		d.ticker.Stop()
		if d.watcher != nil {
			d.watcher.Close()
		}
		d.sched.Wait()
		d.wg.Wait()
		d.persist()
		if err := d.fileLock.Unlock(); err != nil {
			d.logger.Warn().Err(err).Msg("lock release failed")
		}
		d.logger.Info().Msg("daemon stopped")
	})
}
