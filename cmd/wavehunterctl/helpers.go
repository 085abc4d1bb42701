package main

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"wavehunterctl/internal/report"
	"wavehunterctl/internal/tracker"
)

var titleCaser = cases.Title(language.English)

// analyzerTitle renders an analyzer name for display, e.g.
// "connection redirect" -> "Connection Redirect".
func analyzerTitle(name string) string {
	return titleCaser.String(name)
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	value := float64(bytes)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	for _, suffix := range suffixes {
		value /= unit
		if value < unit || suffix == suffixes[len(suffixes)-1] {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return fmt.Sprintf("%d B", bytes)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func statusLabel(status tracker.Status) string {
	if status == tracker.StatusUnknown {
		return "not analyzed"
	}
	return string(status)
}

// warningSummary condenses a recording's report state to one table cell.
func warningSummary(rec tracker.Recording) string {
	if rec.FetchError != "" {
		return "error"
	}
	if rec.Report == nil {
		return "-"
	}
	stats := rec.Report.Statistics
	if stats.NumWarnings == 0 {
		return "none"
	}
	return fmt.Sprintf("%d", stats.NumWarnings)
}

// eventCells renders one analysis event as type/severity/message cells.
func eventCells(event report.Event) (string, string, string) {
	switch e := event.(type) {
	case report.Warning:
		return "warning", e.Severity.String(), e.Text
	case report.Informational:
		return "info", "-", e.Text
	default:
		return "-", "-", ""
	}
}
