package tracker

import (
	"context"
	"log/slog"
	"sync"

	"wavehunterctl/internal/daemonclient"
	"wavehunterctl/internal/logging"
	"wavehunterctl/internal/report"
)

// Status is the analysis lifecycle state of one recording.
type Status string

const (
	StatusUnknown  Status = ""
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

// Fetcher retrieves the raw analysis log for a recording.
type Fetcher interface {
	AnalysisReport(ctx context.Context, name string) (string, error)
}

// Persister write-through persists fetch outcomes. Implemented by
// reportcache.Cache; may be absent.
type Persister interface {
	Put(ctx context.Context, name, rawReport string) error
	PutError(ctx context.Context, name, message string) error
	Remove(ctx context.Context, name string) error
}

// CachedReport is one cached fetch outcome: either a parsed report or the
// error message that prevented one. Failed entries stay renderable instead of
// stuck loading.
type CachedReport struct {
	Report *report.Report
	Err    string
}

// Options configures Tracker construction.
type Options struct {
	Logger    *slog.Logger
	Persister Persister
	// FetchLimit bounds how many report fetches run concurrently when many
	// recordings finish in the same poll. Values below 1 default to 4.
	FetchLimit int
}

// Tracker synchronizes a client-side view of analysis state with the daemon.
// All exported methods are safe for concurrent use.
type Tracker struct {
	fetcher Fetcher
	persist Persister
	logger  *slog.Logger
	sem     chan struct{}

	mu      sync.Mutex
	status  map[string]Status
	reports map[string]CachedReport

	fetches sync.WaitGroup
}

// New constructs a Tracker around the given fetcher.
func New(fetcher Fetcher, opts Options) *Tracker {
	limit := opts.FetchLimit
	if limit < 1 {
		limit = 4
	}
	return &Tracker{
		fetcher: fetcher,
		persist: opts.Persister,
		logger:  logging.NewComponentLogger(opts.Logger, "tracker"),
		sem:     make(chan struct{}, limit),
		status:  make(map[string]Status),
		reports: make(map[string]CachedReport),
	}
}

// Poll applies one observed daemon job status. Map mutations are synchronous;
// only the per-recording report fetches run in the background, bounded by the
// fetch limit. Re-observing an already-finished recording is a no-op: the
// status check below is the idempotence guard that makes concurrent polls and
// repeated finished lists safe without any refetch.
func (t *Tracker) Poll(ctx context.Context, status daemonclient.AnalysisStatus) {
	var fetch []string

	t.mu.Lock()
	if status.Running != nil {
		t.setStatusLocked(*status.Running, StatusRunning)
	}
	for _, name := range status.Queued {
		t.setStatusLocked(name, StatusQueued)
	}
	for _, name := range status.Finished {
		if t.status[name] == StatusFinished {
			continue
		}
		t.status[name] = StatusFinished
		delete(t.reports, name)
		fetch = append(fetch, name)
	}
	t.mu.Unlock()

	for _, name := range fetch {
		t.spawnFetch(ctx, name)
	}
}

// setStatusLocked upgrades a recording's status. A known finished recording
// is never downgraded: the daemon's queued/running lists can lag behind a
// finished transition this tracker already acted on.
func (t *Tracker) setStatusLocked(name string, status Status) {
	if t.status[name] == StatusFinished {
		return
	}
	t.status[name] = status
}

// SetQueuedStatus eagerly marks a recording as queued ahead of the next poll
// observing it server-side, dropping any cached report so the eventual
// finished transition fetches a fresh one.
func (t *Tracker) SetQueuedStatus(name string) {
	t.mu.Lock()
	t.status[name] = StatusQueued
	delete(t.reports, name)
	t.mu.Unlock()

	if t.persist != nil {
		if err := t.persist.Remove(context.Background(), name); err != nil {
			t.logger.Warn("failed to drop persisted report",
				logging.String(logging.FieldRecording, name),
				logging.Error(err))
		}
	}
}

// Restore seeds a finished recording's cached fetch outcome, typically from
// the persistent cache on startup. Raw text re-parses through the current
// decoders; text that no longer parses is restored as an error entry.
func (t *Tracker) Restore(name, rawReport, fetchError string) {
	entry := CachedReport{Err: fetchError}
	if fetchError == "" {
		rep, err := report.Parse(rawReport)
		if err != nil {
			entry.Err = err.Error()
		} else {
			entry.Report = rep
		}
	}

	t.mu.Lock()
	t.status[name] = StatusFinished
	t.reports[name] = entry
	t.mu.Unlock()
}

// Status returns the tracked analysis state for a recording.
func (t *Tracker) Status(name string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status[name]
}

// Report returns the cached fetch outcome for a recording, if any.
func (t *Tracker) Report(name string) (CachedReport, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.reports[name]
	return entry, ok
}

// Forget drops all state for a recording, used when the recording itself is
// deleted from the daemon.
func (t *Tracker) Forget(name string) {
	t.mu.Lock()
	delete(t.status, name)
	delete(t.reports, name)
	t.mu.Unlock()

	if t.persist != nil {
		if err := t.persist.Remove(context.Background(), name); err != nil {
			t.logger.Warn("failed to drop persisted report",
				logging.String(logging.FieldRecording, name),
				logging.Error(err))
		}
	}
}

// Wait blocks until all in-flight report fetches have completed. Used for
// orderly shutdown and by tests.
func (t *Tracker) Wait() {
	t.fetches.Wait()
}

func (t *Tracker) spawnFetch(ctx context.Context, name string) {
	t.fetches.Add(1)
	go func() {
		defer t.fetches.Done()

		t.sem <- struct{}{}
		defer func() { <-t.sem }()

		t.fetchReport(ctx, name)
	}()
}

// fetchReport performs the one-shot fetch-and-parse for a finished recording
// and caches the outcome. Errors are isolated to this recording's entry.
func (t *Tracker) fetchReport(ctx context.Context, name string) {
	raw, err := t.fetcher.AnalysisReport(ctx, name)

	var entry CachedReport
	var parsed *report.Report
	if err == nil {
		parsed, err = report.Parse(raw)
	}
	if err != nil {
		entry = CachedReport{Err: err.Error()}
		t.logger.Warn("report fetch failed",
			logging.String(logging.FieldRecording, name),
			logging.Error(err),
			logging.String(logging.FieldEventType, "report_fetch_failed"),
			logging.String(logging.FieldImpact, "recording shows an inline error instead of a report"))
	} else {
		entry = CachedReport{Report: parsed}
		t.logger.Debug("report cached",
			logging.String(logging.FieldRecording, name),
			logging.Int("rows", len(parsed.Rows)),
			logging.Int("warnings", parsed.Statistics.NumWarnings))
	}

	t.mu.Lock()
	t.reports[name] = entry
	t.mu.Unlock()

	if t.persist == nil {
		return
	}
	var persistErr error
	if entry.Err != "" {
		persistErr = t.persist.PutError(ctx, name, entry.Err)
	} else {
		persistErr = t.persist.Put(ctx, name, raw)
	}
	if persistErr != nil {
		t.logger.Warn("failed to persist report",
			logging.String(logging.FieldRecording, name),
			logging.Error(persistErr))
	}
}
