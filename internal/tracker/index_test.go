package tracker

import (
	"context"
	"testing"
	"time"

	"wavehunterctl/internal/daemonclient"
)

func manifestEntry(name string, start time.Time) daemonclient.ManifestEntry {
	return daemonclient.ManifestEntry{Name: name, StartTime: start, SizeBytes: 1024}
}

func TestRecordingsSortedNewestFirst(t *testing.T) {
	fetcher := newFakeFetcher()
	tr := New(fetcher, Options{})

	base := time.Date(2024, 6, 24, 22, 0, 0, 0, time.UTC)
	manifest := daemonclient.Manifest{
		Entries: []daemonclient.ManifestEntry{
			manifestEntry("old", base),
			manifestEntry("new", base.Add(2*time.Hour)),
			manifestEntry("mid", base.Add(time.Hour)),
		},
	}

	recordings := tr.Recordings(context.Background(), manifest)
	if len(recordings) != 3 {
		t.Fatalf("got %d recordings", len(recordings))
	}
	for i, want := range []string{"new", "mid", "old"} {
		if recordings[i].Name != want {
			t.Errorf("recordings[%d] = %q, want %q", i, recordings[i].Name, want)
		}
	}
}

func TestRecordingsMergeTrackedState(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.errs["failed"] = contextError("daemon returned 500")
	tr := New(fetcher, Options{})
	ctx := context.Background()

	tr.Poll(ctx, daemonclient.AnalysisStatus{
		Queued:   []string{"queued"},
		Finished: []string{"done", "failed"},
	})
	tr.Wait()

	base := time.Date(2024, 6, 24, 22, 0, 0, 0, time.UTC)
	manifest := daemonclient.Manifest{
		Entries: []daemonclient.ManifestEntry{
			manifestEntry("done", base.Add(3*time.Hour)),
			manifestEntry("failed", base.Add(2*time.Hour)),
			manifestEntry("queued", base.Add(time.Hour)),
			manifestEntry("untracked", base),
		},
	}

	recordings := tr.Recordings(ctx, manifest)
	byName := make(map[string]Recording, len(recordings))
	for _, rec := range recordings {
		byName[rec.Name] = rec
	}

	done := byName["done"]
	if done.Status != StatusFinished || done.Report == nil || done.FetchError != "" {
		t.Errorf("done = %+v", done)
	}
	failed := byName["failed"]
	if failed.Status != StatusFinished || failed.Report != nil || failed.FetchError == "" {
		t.Errorf("failed = %+v", failed)
	}
	if byName["queued"].Status != StatusQueued {
		t.Errorf("queued status = %q", byName["queued"].Status)
	}
	if byName["untracked"].Status != StatusUnknown {
		t.Errorf("untracked status = %q", byName["untracked"].Status)
	}
}

func TestRecordingsCurrentEntryFirstAndLive(t *testing.T) {
	fetcher := newFakeFetcher()
	tr := New(fetcher, Options{})
	ctx := context.Background()

	base := time.Date(2024, 6, 24, 22, 0, 0, 0, time.UTC)
	current := manifestEntry("live", base)
	manifest := daemonclient.Manifest{
		Entries: []daemonclient.ManifestEntry{
			manifestEntry("done", base.Add(time.Hour)),
		},
		CurrentEntry: &current,
	}

	recordings := tr.Recordings(ctx, manifest)
	if len(recordings) != 2 {
		t.Fatalf("got %d recordings", len(recordings))
	}
	live := recordings[0]
	if live.Name != "live" || !live.IsCurrent {
		t.Fatalf("current entry not first: %+v", live)
	}
	if live.Status != StatusFinished {
		t.Errorf("current entry status = %q, want finished", live.Status)
	}
	if live.Report == nil {
		t.Error("current entry report not fetched")
	}

	// The live view is refetched each call, never cached.
	tr.Recordings(ctx, manifest)
	if got := fetcher.callCount("live"); got != 2 {
		t.Errorf("live fetch count = %d, want 2", got)
	}
	if _, ok := tr.Report("live"); ok {
		t.Error("current entry leaked into the report cache")
	}
}

func TestRecordingsCurrentEntryFetchError(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.errs["live"] = contextError("connection refused")
	tr := New(fetcher, Options{})

	current := manifestEntry("live", time.Now())
	recordings := tr.Recordings(context.Background(), daemonclient.Manifest{CurrentEntry: &current})
	if len(recordings) != 1 {
		t.Fatalf("got %d recordings", len(recordings))
	}
	if recordings[0].FetchError == "" || recordings[0].Report != nil {
		t.Errorf("current entry = %+v, want inline fetch error", recordings[0])
	}
}

type contextError string

func (e contextError) Error() string { return string(e) }
