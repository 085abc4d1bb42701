// Package watcher runs the background poll loop against the wavehunter
// daemon. A Watcher holds the single-instance file lock, warm-starts the
// tracker from the persistent report cache, and feeds each observed analysis
// status into the tracker at the configured interval until cancelled.
package watcher
