package daemonclient

import "time"

// AnalysisStatus mirrors the daemon's analysis job state: at most one
// recording being analyzed, plus queued and finished recording names.
type AnalysisStatus struct {
	Running  *string  `json:"running"`
	Queued   []string `json:"queued"`
	Finished []string `json:"finished"`
}

// ManifestEntry describes one recording known to the daemon.
type ManifestEntry struct {
	Name            string     `json:"name"`
	StartTime       time.Time  `json:"start_time"`
	LastMessageTime *time.Time `json:"last_message_time"`
	SizeBytes       int64      `json:"qmdl_size_bytes"`
}

// Manifest is the daemon's recording list. CurrentEntry, when present, is the
// recording currently being captured; it is not included in Entries.
type Manifest struct {
	Entries      []ManifestEntry `json:"entries"`
	CurrentEntry *ManifestEntry  `json:"current_entry"`
}
