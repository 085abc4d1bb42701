// Package logging assembles structured slog loggers and formatting helpers
// used across wavehunterctl components.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and standardizes the attribute keys (recording names, event types,
// correlation IDs) so every component emits log lines with the same shape. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
