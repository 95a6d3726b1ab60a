package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"lectern/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var ticketID int64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently published tickets from the local journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			var entries []journal.Entry
			if ticketID > 0 {
				entries, err = store.ByTicket(cmd.Context(), ticketID)
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No published tickets recorded yet")
				return nil
			}

			headers := []string{"Ticket", "Title", "Result", "Targets", "Duration", "Reported"}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					fmt.Sprintf("%d", entry.TicketID),
					truncate(entry.Title, 40),
					entryResult(entry),
					entryTargets(entry),
					entry.Duration.Round(time.Second).String(),
					entry.ReportedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{
				alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft,
			}))

			if isTerminal() && ticketID == 0 {
				fmt.Fprintln(out, "Use --ticket <id> to see every run of one ticket")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	cmd.Flags().Int64Var(&ticketID, "ticket", 0, "Show all runs for one ticket id")
	return cmd
}

func entryResult(entry journal.Entry) string {
	if entry.Failed {
		return "failed"
	}
	return "done"
}

func entryTargets(entry journal.Entry) string {
	parts := make([]string, 0, len(entry.Outcomes))
	for _, outcome := range entry.Outcomes {
		parts = append(parts, outcome.Target+"="+outcome.State)
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "~"
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
