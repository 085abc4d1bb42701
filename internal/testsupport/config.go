// Package testsupport provides shared helpers for package tests: seeded
// configurations and a stub daemon HTTP server.
package testsupport

import (
	"path/filepath"
	"testing"

	"wavehunterctl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.ReportCache.Path = filepath.Join(base, "cache", "reports.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return builder.cfg
}

// WithBaseURL points the test config at the given daemon address, typically a
// stub server's URL.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Daemon.BaseURL = url
	}
}

// WithCacheDisabled turns off the persistent report cache.
func WithCacheDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.ReportCache.Enabled = false
	}
}

// WithFetchLimit overrides the report fetch concurrency.
func WithFetchLimit(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watcher.FetchLimit = limit
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
