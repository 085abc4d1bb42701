package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"wavehunterctl/internal/config"
	"wavehunterctl/internal/daemonclient"
	"wavehunterctl/internal/logging"
	"wavehunterctl/internal/reportcache"
	"wavehunterctl/internal/tracker"
)

// Poller observes the daemon's analysis job status.
type Poller interface {
	AnalysisStatus(ctx context.Context) (daemonclient.AnalysisStatus, error)
}

// Watcher drives the analysis poll loop and enforces single-instance execution.
type Watcher struct {
	cfg     *config.Config
	logger  *slog.Logger
	poller  Poller
	tracker *tracker.Tracker
	cache   *reportcache.Cache

	sessionID string
	lockPath  string
	lock      *flock.Flock
	poke      chan struct{}

	running atomic.Bool
}

// New constructs a watcher. The cache may be nil when persistence is disabled.
func New(cfg *config.Config, poller Poller, tr *tracker.Tracker, cache *reportcache.Cache, logger *slog.Logger) (*Watcher, error) {
	if cfg == nil || poller == nil || tr == nil {
		return nil, errors.New("watcher requires config, poller, and tracker")
	}

	sessionID := uuid.NewString()
	logger = logging.NewComponentLogger(logger, "watcher").With(
		logging.String(logging.FieldCorrelationID, sessionID))

	lockPath := cfg.LockFilePath()
	return &Watcher{
		cfg:       cfg,
		logger:    logger,
		poller:    poller,
		tracker:   tr,
		cache:     cache,
		sessionID: sessionID,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
		poke:      make(chan struct{}, 1),
	}, nil
}

// SessionID returns the identifier stamped on every log line of this watcher run.
func (w *Watcher) SessionID() string {
	return w.sessionID
}

// Run acquires the single-instance lock and polls the daemon until the context
// is cancelled. In-flight report fetches are drained before returning.
func (w *Watcher) Run(ctx context.Context) error {
	if w.running.Load() {
		return errors.New("watcher already running")
	}

	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another watcher instance is already running")
	}
	defer func() {
		if err := w.lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watcher lock", logging.Error(err))
		}
	}()

	w.running.Store(true)
	defer w.running.Store(false)

	w.restoreFromCache(ctx)

	interval := w.cfg.PollInterval()
	w.logger.Info("watcher started",
		logging.String("daemon_url", w.cfg.Daemon.BaseURL),
		logging.Duration("poll_interval", interval),
		logging.String("lock", w.lockPath))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher shutting down")
			w.tracker.Wait()
			return nil
		case <-ticker.C:
			w.pollOnce(ctx)
		case <-w.poke:
			w.pollOnce(ctx)
		}
	}
}

// Poke requests an immediate poll ahead of the next tick, used when the
// device monitor sees the capture device attach. Non-blocking; a pending
// poke is coalesced.
func (w *Watcher) Poke() {
	select {
	case w.poke <- struct{}{}:
	default:
	}
}

// restoreFromCache warm-starts the tracker from persisted fetch outcomes so a
// restart does not refetch every already-finished report.
func (w *Watcher) restoreFromCache(ctx context.Context) {
	if w.cache == nil {
		return
	}
	entries, err := w.cache.All(ctx)
	if err != nil {
		logging.WarnWithContext(w.logger, "failed to read report cache", "cache_restore_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the cache file and restart to rebuild it"),
			logging.String(logging.FieldImpact, "finished reports will be refetched from the daemon"))
		return
	}
	for _, entry := range entries {
		w.tracker.Restore(entry.Name, entry.RawReport, entry.FetchError)
	}
	if len(entries) > 0 {
		w.logger.Info("restored cached reports", logging.Int("count", len(entries)))
	}
}

func (w *Watcher) pollOnce(ctx context.Context) {
	status, err := w.poller.AnalysisStatus(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logging.WarnWithContext(w.logger, "analysis status poll failed", "poll_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the daemon is reachable at the configured base URL"),
			logging.String(logging.FieldImpact, "tracked analysis state is stale until the next successful poll"))
		return
	}
	w.tracker.Poll(ctx, status)
}
