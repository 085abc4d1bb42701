package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wavehunterctl/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon connectivity and analysis job state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.daemonClient()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var lines []string

			lines = append(lines, renderSectionHeader("Environment", colorize)...)
			for _, result := range preflight.RunAll(cmd.Context(), cfg, client) {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Analysis", colorize)...)

			status, err := client.AnalysisStatus(cmd.Context())
			if err != nil {
				lines = append(lines, renderStatusLine("Jobs", statusError, err.Error(), colorize))
			} else {
				running := "none"
				if status.Running != nil {
					running = *status.Running
				}
				lines = append(lines, renderStatusLine("Running", statusInfo, running, colorize))
				lines = append(lines, renderStatusLine("Queued", statusInfo, fmt.Sprintf("%d", len(status.Queued)), colorize))
				lines = append(lines, renderStatusLine("Finished", statusInfo, fmt.Sprintf("%d", len(status.Finished)), colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}
