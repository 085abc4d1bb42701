package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wavehunterctl/internal/tracker"
)

func newRecordingsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "recordings",
		Aliases: []string{"ls"},
		Short:   "List recordings with their analysis state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.daemonClient()
			if err != nil {
				return err
			}

			manifest, err := client.Manifest(cmd.Context())
			if err != nil {
				return err
			}
			status, err := client.AnalysisStatus(cmd.Context())
			if err != nil {
				return err
			}

			tr := tracker.New(client, tracker.Options{FetchLimit: cfg.Watcher.FetchLimit})
			tr.Poll(cmd.Context(), status)
			tr.Wait()

			recordings := tr.Recordings(cmd.Context(), manifest)
			if len(recordings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recordings on the device.")
				return nil
			}

			rows := make([][]string, 0, len(recordings))
			for _, rec := range recordings {
				name := rec.Name
				if rec.IsCurrent {
					name += " (recording)"
				}
				rows = append(rows, []string{
					name,
					formatTime(rec.StartTime),
					formatOptionalTime(rec.LastMessageTime),
					formatSize(rec.SizeBytes),
					statusLabel(rec.Status),
					warningSummary(rec),
				})
			}

			headers := []string{"NAME", "STARTED", "LAST MESSAGE", "SIZE", "STATUS", "WARNINGS"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}
