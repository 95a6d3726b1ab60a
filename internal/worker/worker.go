// Package worker runs the publish loop: claim a ticket, drive it to its
// terminal report, repeat. A file lock enforces a single worker instance per
// machine; the tracker's atomic claim already prevents two workers sharing a
// ticket across machines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/services"
)

// Processor drives one claimed ticket end to end.
type Processor interface {
	ProcessNext(ctx context.Context) (bool, error)
}

// Worker owns the claim loop and the instance lock.
type Worker struct {
	cfg       *config.Config
	processor Processor
	logger    *slog.Logger

	lockPath string
	lock     *flock.Flock
	interval time.Duration
}

// New constructs a worker.
func New(cfg *config.Config, processor Processor, logger *slog.Logger) (*Worker, error) {
	if cfg == nil || processor == nil {
		return nil, errors.New("worker requires config and processor")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	interval := time.Duration(cfg.Worker.PollIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "lectern.lock")
	return &Worker{
		cfg:       cfg,
		processor: processor,
		logger:    logger,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
		interval:  interval,
	}, nil
}

func (w *Worker) acquireLock() error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", w.lockPath, err)
	}
	if !ok {
		return fmt.Errorf("another lectern worker already holds %s", w.lockPath)
	}
	return nil
}

func (w *Worker) releaseLock() {
	if err := w.lock.Unlock(); err != nil {
		w.logger.Warn("failed to release worker lock", logging.Error(err))
	}
}

// RunOnce drains the queue: tickets are processed until the tracker has none
// left, then the worker exits. Cancellation is honoured between tickets,
// never inside one.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	if err := w.acquireLock(); err != nil {
		return 0, err
	}
	defer w.releaseLock()
	return w.drain(ctx)
}

// Poll runs until the context is cancelled, sleeping between empty polls.
func (w *Worker) Poll(ctx context.Context) error {
	if err := w.acquireLock(); err != nil {
		return err
	}
	defer w.releaseLock()

	w.logger.Info("worker polling",
		logging.Duration("interval", w.interval),
		logging.String("lock", w.lockPath))
	for {
		if _, err := w.drain(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			w.logger.Error("drain failed", logging.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.interval):
		}
	}
}

func (w *Worker) drain(ctx context.Context) (int, error) {
	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		runCtx := services.WithRequestID(ctx, uuid.NewString())
		ok, err := w.processor.ProcessNext(runCtx)
		if err != nil {
			return processed, err
		}
		if !ok {
			return processed, nil
		}
		processed++
	}
}
