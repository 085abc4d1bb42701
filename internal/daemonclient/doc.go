// Package daemonclient is the typed HTTP client for the wavehunter device
// daemon. It covers the consumer-side contracts the synchronizer and CLI
// need: the analysis job status, per-recording analysis reports, the
// recording manifest, and enqueueing analysis jobs. Transport behavior
// (timeouts, TLS) is owned by the injected HTTP client.
package daemonclient
