package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lectern/internal/journal"
	"lectern/internal/logging"
	"lectern/internal/worker"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Claim and publish release tickets",
		Long: "Claims tickets from the tracker and publishes them to the configured " +
			"targets. By default the worker polls until interrupted; --once drains " +
			"the queue and exits. An interrupt stops the worker between tickets, " +
			"never in the middle of one.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			orchestrator := ctx.newOrchestrator(cfg, logger, store)
			w, err := worker.New(cfg, orchestrator, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if once {
				processed, err := w.RunOnce(runCtx)
				if err != nil {
					return err
				}
				logger.Info("queue drained", logging.Int("processed", processed))
				fmt.Fprintf(cmd.OutOrStdout(), "Processed %d ticket(s)\n", processed)
				return nil
			}
			return w.Poll(runCtx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Drain the queue once and exit instead of polling")
	return cmd
}
