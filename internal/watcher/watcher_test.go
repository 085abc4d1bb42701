package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"wavehunterctl/internal/config"
	"wavehunterctl/internal/daemonclient"
	"wavehunterctl/internal/logging"
	"wavehunterctl/internal/reportcache"
	"wavehunterctl/internal/tracker"
)

type fakePoller struct {
	calls  atomic.Int64
	status daemonclient.AnalysisStatus
	err    error
}

func (p *fakePoller) AnalysisStatus(context.Context) (daemonclient.AnalysisStatus, error) {
	p.calls.Add(1)
	return p.status, p.err
}

type fakeFetcher struct{}

func (fakeFetcher) AnalysisReport(context.Context, string) (string, error) {
	return `{"analyzers":[],"schema_version":2}`, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.CacheDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	return &cfg
}

func TestNewRequiresDependencies(t *testing.T) {
	cfg := testConfig(t)
	if _, err := New(nil, &fakePoller{}, tracker.New(fakeFetcher{}, tracker.Options{}), nil, logging.NewNop()); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := New(cfg, nil, tracker.New(fakeFetcher{}, tracker.Options{}), nil, logging.NewNop()); err == nil {
		t.Error("expected error for nil poller")
	}
	if _, err := New(cfg, &fakePoller{}, nil, nil, logging.NewNop()); err == nil {
		t.Error("expected error for nil tracker")
	}
}

func TestRunPollsAndAppliesStatus(t *testing.T) {
	cfg := testConfig(t)
	poller := &fakePoller{status: daemonclient.AnalysisStatus{Queued: []string{"rec"}}}
	tr := tracker.New(fakeFetcher{}, tracker.Options{})

	w, err := New(cfg, poller, tr, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.SessionID() == "" {
		t.Error("session ID not assigned")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, func() bool { return poller.calls.Load() >= 1 })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := tr.Status("rec"); got != tracker.StatusQueued {
		t.Errorf("status = %q, want queued", got)
	}
}

func TestRunSurvivesPollErrors(t *testing.T) {
	cfg := testConfig(t)
	poller := &fakePoller{err: errors.New("connection refused")}

	w, err := New(cfg, poller, tracker.New(fakeFetcher{}, tracker.Options{}), nil, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, func() bool { return poller.calls.Load() >= 1 })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error on poll failure: %v", err)
	}
}

func TestRunRejectsSecondInstance(t *testing.T) {
	cfg := testConfig(t)
	poller := &fakePoller{}
	tr := tracker.New(fakeFetcher{}, tracker.Options{})

	first, err := New(cfg, poller, tr, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- first.Run(ctx) }()
	waitFor(t, func() bool { return poller.calls.Load() >= 1 })

	second, err := New(cfg, poller, tr, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := second.Run(ctx); err == nil {
		t.Error("second instance acquired the lock")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunRestoresFromCache(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	cache, err := reportcache.Open(filepath.Join(cfg.Paths.CacheDir, "reports.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cache.Close()
	if err := cache.Put(ctx, "rec", `{"analyzers":[],"schema_version":2}`); err != nil {
		t.Fatalf("Put: %v", err)
	}

	poller := &fakePoller{}
	tr := tracker.New(fakeFetcher{}, tracker.Options{})
	w, err := New(cfg, poller, tr, cache, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- w.Run(runCtx) }()
	waitFor(t, func() bool { return poller.calls.Load() >= 1 })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := tr.Status("rec"); got != tracker.StatusFinished {
		t.Errorf("status = %q, want finished after restore", got)
	}
	if _, ok := tr.Report("rec"); !ok {
		t.Error("restored report missing")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
