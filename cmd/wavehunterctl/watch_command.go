package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wavehunterctl/internal/devmon"
	"wavehunterctl/internal/logging"
	"wavehunterctl/internal/reportcache"
	"wavehunterctl/internal/tracker"
	"wavehunterctl/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the analysis watcher in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			level := cfg.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			logger, err := logging.NewFromOptions(level, cfg.Logging.Format, cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			client, err := ctx.daemonClient()
			if err != nil {
				return err
			}

			opts := tracker.Options{
				Logger:     logger,
				FetchLimit: cfg.Watcher.FetchLimit,
			}

			var cache *reportcache.Cache
			if path := cfg.ReportCachePath(); path != "" {
				cache, err = reportcache.Open(path)
				if err != nil {
					return fmt.Errorf("open report cache: %w", err)
				}
				defer cache.Close()
				opts.Persister = cache
			}

			tr := tracker.New(client, opts)
			w, err := watcher.New(cfg, client, tr, cache, logger)
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if cfg.Watcher.DeviceMonitor {
				monitor := devmon.New(logger, func(_ context.Context, _ string) { w.Poke() }, nil)
				if err := monitor.Start(signalCtx); err != nil {
					return fmt.Errorf("start device monitor: %w", err)
				}
				defer monitor.Stop()
			}

			return w.Run(signalCtx)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	return cmd
}
