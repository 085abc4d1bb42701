// Package reportcache persists fetched analysis reports (or the error that
// prevented fetching them) per recording name, backed by SQLite. A restarted
// watcher warms its in-memory state from this cache instead of refetching
// reports for recordings the daemon already finished analyzing.
//
// The cache stores the raw report text rather than the decoded structure, so
// cached reports always re-parse through the current decoders on load.
package reportcache
