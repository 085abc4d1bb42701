package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"wavehunterctl/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var rawOutput bool
	var warningsOnly bool

	cmd := &cobra.Command{
		Use:   "report <recording>",
		Short: "Show the analysis report for a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.daemonClient()
			if err != nil {
				return err
			}
			name := args[0]

			if rawOutput {
				text, err := client.AnalysisReport(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			rep, err := client.GetReport(cmd.Context(), name)
			if err != nil {
				return err
			}
			writeReport(cmd.OutOrStdout(), name, rep, warningsOnly)
			return nil
		},
	}

	cmd.Flags().BoolVar(&rawOutput, "raw", false, "Print the raw analysis log instead of the assembled report")
	cmd.Flags().BoolVar(&warningsOnly, "warnings", false, "Only show rows that carry warning events")
	return cmd
}

func writeReport(out io.Writer, name string, rep *report.Report, warningsOnly bool) {
	colorize := shouldColorize(out)
	lines := renderSectionHeader("Report: "+name, colorize)
	fmt.Fprintln(out, strings.Join(lines, "\n"))

	fmt.Fprintf(out, "%sSchema version: %d\n", statusIndent, rep.Metadata.SchemaVersion)
	if len(rep.Metadata.Analyzers) > 0 {
		rows := make([][]string, 0, len(rep.Metadata.Analyzers))
		for _, analyzer := range rep.Metadata.Analyzers {
			rows = append(rows, []string{
				analyzerTitle(analyzer.Name),
				fmt.Sprintf("%d", analyzer.Version),
				analyzer.Description,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"ANALYZER", "VERSION", "DESCRIPTION"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft},
		))
	}

	if eventRows := collectEventRows(rep, warningsOnly); len(eventRows) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"TIME", "TYPE", "SEVERITY", "MESSAGE"},
			eventRows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
		))
	}

	stats := rep.Statistics
	fmt.Fprintf(out, "%sWarnings: %d  Informational: %d  Skipped: %d\n",
		statusIndent, stats.NumWarnings, stats.NumInformational, stats.NumSkipped)
}

// collectEventRows flattens report rows into table cells. Skipped packets are
// folded into the statistics line only; their reasons are uninteresting at
// report granularity.
func collectEventRows(rep *report.Report, warningsOnly bool) [][]string {
	var rows [][]string
	for _, row := range rep.Rows {
		analyzed, ok := row.(report.Analyzed)
		if !ok {
			continue
		}
		for _, event := range analyzed.Events {
			if event == nil {
				continue
			}
			if warningsOnly {
				if _, isWarning := event.(report.Warning); !isWarning {
					continue
				}
			}
			kind, severity, message := eventCells(event)
			rows = append(rows, []string{
				formatTime(analyzed.PacketTimestamp),
				kind,
				severity,
				message,
			})
		}
	}
	return rows
}
