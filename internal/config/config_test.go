package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing config file")
	}
	if cfg.Daemon.BaseURL != defaultDaemonBaseURL {
		t.Errorf("BaseURL = %q, want default %q", cfg.Daemon.BaseURL, defaultDaemonBaseURL)
	}
	if cfg.Watcher.PollInterval != defaultPollInterval {
		t.Errorf("PollInterval = %d, want %d", cfg.Watcher.PollInterval, defaultPollInterval)
	}
	if cfg.Watcher.FetchLimit != defaultFetchLimit {
		t.Errorf("FetchLimit = %d, want %d", cfg.Watcher.FetchLimit, defaultFetchLimit)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[daemon]
base_url = "http://10.0.0.5:8080/"
request_timeout = 3

[watcher]
poll_interval = 5

[paths]
log_dir = "` + filepath.Join(dir, "logs") + `"
cache_dir = "` + filepath.Join(dir, "cache") + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Daemon.BaseURL != "http://10.0.0.5:8080" {
		t.Errorf("BaseURL not normalized, got %q", cfg.Daemon.BaseURL)
	}
	if cfg.Watcher.PollInterval != 5 {
		t.Errorf("PollInterval = %d, want 5", cfg.Watcher.PollInterval)
	}
	wantCache := filepath.Join(dir, "cache", "reports.db")
	if cfg.ReportCache.Path != wantCache {
		t.Errorf("ReportCache.Path = %q, want %q", cfg.ReportCache.Path, wantCache)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad scheme",
			mutate:  func(c *Config) { c.Daemon.BaseURL = "ftp://device" },
			wantErr: "daemon.base_url",
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.Watcher.PollInterval = 0 },
			wantErr: "watcher.poll_interval",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path, false); err != nil {
		t.Fatalf("first WriteSample: %v", err)
	}
	if err := WriteSample(path, false); err == nil {
		t.Fatal("expected error overwriting existing config without force")
	}
	if err := WriteSample(path, true); err != nil {
		t.Fatalf("WriteSample with force: %v", err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	got, err := expandPath("~/foo")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "foo") {
		t.Errorf("expandPath(~/foo) = %q", got)
	}
}
