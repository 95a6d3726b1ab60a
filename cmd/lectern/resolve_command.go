package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/logging"
	"lectern/internal/ticket"
	"lectern/internal/tracker"
)

// newResolveCommand fetches one ticket's properties and prints the typed
// view without publishing anything. Useful to check a ticket before a worker
// picks it up.
func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <ticket-id>",
		Short: "Fetch and validate a ticket without publishing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticketID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid ticket id %q", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client := tracker.NewRPCClient(cfg)
			raw, err := client.GetProperties(cmd.Context(), ticketID)
			if err != nil {
				return err
			}
			t, err := ticket.Resolve(raw, ticketID, cfg, logging.NewNop())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ticket %d: %s\n", t.ID, t.Title)
			fmt.Fprintf(out, "  Fahrplan ID:  %s\n", t.FahrplanID)
			fmt.Fprintf(out, "  GUID:         %s\n", t.GUID)
			fmt.Fprintf(out, "  Slug:         %s\n", t.Slug)
			fmt.Fprintf(out, "  Master:       %v\n", t.IsMaster)
			fmt.Fprintf(out, "  Source file:  %s\n", t.SourcePath())
			fmt.Fprintf(out, "  Languages:    %s\n", formatLanguages(t))

			fmt.Fprintln(out, "  Targets:")
			fmt.Fprintf(out, "    voctoweb: %s\n", formatTarget(t.Voctoweb.Flags, t.Voctoweb.Update.String()))
			fmt.Fprintf(out, "    youtube:  %s\n", formatTarget(t.YouTube.Flags, t.YouTube.Update.String()))
			fmt.Fprintf(out, "    rclone:   %s\n", formatTarget(t.Rclone.Flags, ""))
			fmt.Fprintf(out, "    webhook:  %s\n", formatTarget(t.Webhook.Flags, ""))
			fmt.Fprintf(out, "    announce: %s\n", formatTarget(t.Announce.Flags, ""))
			return nil
		},
	}
}

func formatLanguages(t *ticket.Ticket) string {
	parts := make([]string, 0, len(t.Languages))
	for _, index := range t.LanguageIndexes() {
		parts = append(parts, fmt.Sprintf("%d=%s", index, t.Languages[index]))
	}
	return strings.Join(parts, " ")
}

func formatTarget(flags ticket.TargetFlags, policy string) string {
	if !flags.Enabled() {
		return "disabled"
	}
	if policy != "" && policy != "default" {
		return "enabled (update: " + policy + ")"
	}
	return "enabled"
}
