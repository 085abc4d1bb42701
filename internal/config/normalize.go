package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDaemon()
	c.normalizeWatcher()
	if err := c.normalizeReportCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDaemon() {
	c.Daemon.BaseURL = strings.TrimRight(strings.TrimSpace(c.Daemon.BaseURL), "/")
	if c.Daemon.BaseURL == "" {
		c.Daemon.BaseURL = defaultDaemonBaseURL
	}
	if c.Daemon.RequestTimeout <= 0 {
		c.Daemon.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeWatcher() {
	if c.Watcher.PollInterval <= 0 {
		c.Watcher.PollInterval = defaultPollInterval
	}
	if c.Watcher.FetchLimit <= 0 {
		c.Watcher.FetchLimit = defaultFetchLimit
	}
}

func (c *Config) normalizeReportCache() error {
	if !c.ReportCache.Enabled {
		return nil
	}
	if strings.TrimSpace(c.ReportCache.Path) == "" {
		c.ReportCache.Path = filepath.Join(c.Paths.CacheDir, "reports.db")
		return nil
	}
	expanded, err := expandPath(c.ReportCache.Path)
	if err != nil {
		return fmt.Errorf("report_cache.path: %w", err)
	}
	c.ReportCache.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
