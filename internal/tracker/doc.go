// Package tracker keeps a client-side view of the daemon's analysis job
// state. A Tracker owns a per-recording status map and a per-recording report
// cache; callers drive it with Poll (observed daemon job status) and
// SetQueuedStatus (local enqueue), and read merged state back through the
// accessors or the Recordings index view.
//
// Reports are fetched lazily and exactly once per finished recording: the
// first poll that observes a recording as finished triggers one bounded,
// fire-and-forget fetch whose outcome (report or error message) is cached
// until the recording disappears or is re-queued. The recording currently
// being captured is the exception: its report is a live, growing view and is
// refetched on every index refresh, never cached.
package tracker
