// Command wavehunterctl is the companion CLI for the wavehunter capture
// daemon: it inspects recordings and analysis reports, queues analyses, and
// runs the foreground watcher that mirrors the daemon's analysis state.
package main
