package config

const (
	defaultDaemonBaseURL  = "http://192.168.1.1:8080"
	defaultRequestTimeout = 10
	defaultPollInterval   = 2
	defaultFetchLimit     = 4
	defaultLogDir         = "~/.local/share/wavehunterctl/logs"
	defaultCacheDir       = "~/.local/share/wavehunterctl/cache"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Daemon: Daemon{
			BaseURL:        defaultDaemonBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Watcher: Watcher{
			PollInterval:  defaultPollInterval,
			FetchLimit:    defaultFetchLimit,
			DeviceMonitor: false,
		},
		Paths: Paths{
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir,
		},
		ReportCache: ReportCache{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
