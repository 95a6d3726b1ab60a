package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"lectern/internal/services"
	"lectern/internal/ticket"
)

// statfs is swapped out in tests.
var statfs = unix.Statfs

// preflight verifies the state a publish run depends on: the source file
// must exist and be non-empty, and when language derivatives will be
// produced, the file must actually carry the expected audio tracks and the
// output directory must be writable with enough free space for them.
// Failures here are terminal for the ticket, not retried.
func (o *Orchestrator) preflight(ctx context.Context, t *ticket.Ticket) error {
	source := t.SourcePath()
	info, err := os.Stat(source)
	if err != nil {
		return services.Wrap(services.ErrPrecondition, "", "preflight", fmt.Sprintf("source file %s missing", source), err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrPrecondition, "", "preflight", fmt.Sprintf("source path %s is a directory", source), nil)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrPrecondition, "", "preflight", fmt.Sprintf("source file %s is empty", source), nil)
	}

	if len(t.PublishLanguages()) <= 1 {
		return nil
	}

	if o.prober != nil {
		info, err := o.prober.Probe(ctx, source)
		if err != nil {
			return services.Wrap(services.ErrPrecondition, "", "preflight", fmt.Sprintf("probe %s", source), err)
		}
		if info.AudioTracks < len(t.Languages) {
			return services.Wrap(services.ErrPrecondition, "", "preflight",
				fmt.Sprintf("source carries %d audio tracks, language map names %d", info.AudioTracks, len(t.Languages)), nil)
		}
	}

	outputDir := o.cfg.Paths.OutputDir
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return services.Wrap(services.ErrPrecondition, "", "preflight", fmt.Sprintf("output directory %s not usable", outputDir), err)
	}
	probe := filepath.Join(outputDir, ".writecheck")
	f, err := os.Create(probe)
	if err != nil {
		return services.Wrap(services.ErrPrecondition, "", "preflight", fmt.Sprintf("output directory %s not writable", outputDir), err)
	}
	_ = f.Close()
	_ = os.Remove(probe)

	var stat unix.Statfs_t
	if err := statfs(outputDir, &stat); err != nil {
		return services.Wrap(services.ErrPrecondition, "", "preflight", fmt.Sprintf("statfs %s", outputDir), err)
	}
	free := stat.Bavail * uint64(stat.Bsize)
	// Each language derivative is at most the size of the master.
	needed := uint64(info.Size()) * uint64(len(t.PublishLanguages()))
	if free < needed {
		return services.Wrap(services.ErrPrecondition, "", "preflight",
			fmt.Sprintf("output directory %s has %d bytes free, need %d for language derivatives", outputDir, free, needed), nil)
	}
	return nil
}
