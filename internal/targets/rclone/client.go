// Package rclone syncs release files to a generic remote destination by
// shelling out to the rclone binary. The destination remote comes from the
// ticket; the binary location and timeout from worker configuration.
package rclone

import (
	"context"
	"errors"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"

	"lectern/internal/config"
	"lectern/internal/services"
	"lectern/internal/targets"
	"lectern/internal/ticket"
)

var commandContext = exec.CommandContext

// CLI wraps the rclone command-line tool.
type CLI struct {
	binary  string
	timeout time.Duration
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// NewCLI constructs a CLI client from worker configuration.
func NewCLI(cfg *config.Config, opts ...Option) *CLI {
	cli := &CLI{
		binary:  cfg.Rclone.Binary,
		timeout: time.Duration(cfg.Rclone.TimeoutSecs) * time.Second,
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Sync copies the local file to the ticket's destination remote and returns
// the remote filename it produced.
func (c *CLI) Sync(ctx context.Context, t *ticket.Ticket, localPath string) (string, error) {
	if localPath == "" {
		return "", services.Wrap(services.ErrTarget, "rclone", "sync", "local path required", nil)
	}
	destination := strings.TrimRight(strings.TrimSpace(t.Rclone.Destination), "/")
	if destination == "" {
		return "", services.Wrap(services.ErrTarget, "rclone", "sync", "ticket has no destination", nil)
	}

	remoteName := filepath.Base(localPath)
	remote := destination + "/" + remoteName

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"copyto", localPath, remote}
	cmd := commandContext(ctx, c.binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(out))
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			detail = "timed out after " + c.timeout.String()
		}
		return "", services.Wrap(services.ErrTarget, "rclone", "copyto "+remote, detail, err)
	}
	return path.Base(remote), nil
}

var _ targets.Sync = (*CLI)(nil)
