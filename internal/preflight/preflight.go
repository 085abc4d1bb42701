package preflight

import (
	"context"

	"wavehunterctl/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, daemon DaemonPinger) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDaemon(ctx, cfg.Daemon.BaseURL, daemon))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))

	return results
}
