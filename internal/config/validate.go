package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDaemon(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDaemon() error {
	parsed, err := url.Parse(c.Daemon.BaseURL)
	if err != nil {
		return fmt.Errorf("daemon.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("daemon.base_url must use http or https, got %q", c.Daemon.BaseURL)
	}
	if parsed.Host == "" {
		return errors.New("daemon.base_url must include a host")
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if c.Watcher.PollInterval < 1 {
		return errors.New("watcher.poll_interval must be at least 1 second")
	}
	if c.Watcher.FetchLimit < 1 {
		return errors.New("watcher.fetch_limit must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
