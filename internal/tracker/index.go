package tracker

import (
	"context"
	"sort"
	"time"

	"wavehunterctl/internal/daemonclient"
	"wavehunterctl/internal/report"
)

// Recording is one entry of the merged index view: manifest data joined with
// the tracker's analysis state and cached report for presentation.
type Recording struct {
	Name            string
	StartTime       time.Time
	LastMessageTime *time.Time
	SizeBytes       int64
	IsCurrent       bool
	Status          Status
	Report          *report.Report
	FetchError      string
}

// Recordings merges a daemon manifest with tracked state. Finished entries
// carry their cached report-or-error. The currently-capturing entry is always
// treated as finished and its report is fetched live on every call: it is a
// growing view, so it never enters the cache and the idempotence guard does
// not apply to it. It sorts first, then the remaining entries newest first.
func (t *Tracker) Recordings(ctx context.Context, manifest daemonclient.Manifest) []Recording {
	recordings := make([]Recording, 0, len(manifest.Entries)+1)

	for _, entry := range manifest.Entries {
		rec := Recording{
			Name:            entry.Name,
			StartTime:       entry.StartTime,
			LastMessageTime: entry.LastMessageTime,
			SizeBytes:       entry.SizeBytes,
			Status:          t.Status(entry.Name),
		}
		if cached, ok := t.Report(entry.Name); ok {
			rec.Report = cached.Report
			rec.FetchError = cached.Err
		}
		recordings = append(recordings, rec)
	}

	sort.Slice(recordings, func(i, j int) bool {
		return recordings[i].StartTime.After(recordings[j].StartTime)
	})

	if current := manifest.CurrentEntry; current != nil {
		rec := Recording{
			Name:            current.Name,
			StartTime:       current.StartTime,
			LastMessageTime: current.LastMessageTime,
			SizeBytes:       current.SizeBytes,
			IsCurrent:       true,
			Status:          StatusFinished,
		}
		raw, err := t.fetcher.AnalysisReport(ctx, current.Name)
		var parsed *report.Report
		if err == nil {
			parsed, err = report.Parse(raw)
		}
		if err != nil {
			rec.FetchError = err.Error()
		} else {
			rec.Report = parsed
		}
		recordings = append([]Recording{rec}, recordings...)
	}

	return recordings
}
