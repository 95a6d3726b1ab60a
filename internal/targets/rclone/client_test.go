package rclone

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"lectern/internal/config"
	"lectern/internal/services"
	"lectern/internal/ticket"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Rclone.Binary = "rclone"
	cfg.Rclone.TimeoutSecs = 30
	return &cfg
}

func TestSyncCopiesToDestination(t *testing.T) {
	var captured []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string{name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "RCLONE_HELPER_MODE=ok")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI(testConfig())
	tk := &ticket.Ticket{Rclone: ticket.RclonePlan{Destination: "upload:cdn.example.org/congress/"}}
	name, err := cli.Sync(context.Background(), tk, "/video/congress-1234-eng.mp4")
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if name != "congress-1234-eng.mp4" {
		t.Fatalf("remote filename = %q", name)
	}
	joined := strings.Join(captured, " ")
	if !strings.Contains(joined, "copyto /video/congress-1234-eng.mp4 upload:cdn.example.org/congress/congress-1234-eng.mp4") {
		t.Fatalf("unexpected command: %v", captured)
	}
}

func TestSyncRequiresDestination(t *testing.T) {
	cli := NewCLI(testConfig())
	tk := &ticket.Ticket{}
	_, err := cli.Sync(context.Background(), tk, "/video/talk.mp4")
	if err == nil {
		t.Fatal("expected error for missing destination")
	}
	if !errors.Is(err, services.ErrTarget) {
		t.Fatalf("expected target error, got %v", err)
	}
}

func TestSyncReportsCommandFailure(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "RCLONE_HELPER_MODE=fail")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI(testConfig())
	tk := &ticket.Ticket{Rclone: ticket.RclonePlan{Destination: "upload:cdn"}}
	_, err := cli.Sync(context.Background(), tk, "/video/talk.mp4")
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected command output in error, got %v", err)
	}
}

func TestWithBinaryOverride(t *testing.T) {
	cli := NewCLI(testConfig(), WithBinary("/opt/rclone"))
	if cli.binary != "/opt/rclone" {
		t.Fatalf("binary = %q", cli.binary)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("RCLONE_HELPER_MODE") {
	case "fail":
		os.Stderr.WriteString("Failed to copy: connection refused\n")
		os.Exit(1)
	}
	os.Exit(0)
}
