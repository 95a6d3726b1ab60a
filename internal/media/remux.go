package media

import (
	"errors"
	"fmt"
	"strconv"

	"context"
)

// Remux copies the video stream plus a single audio track into outputPath
// without re-encoding. Used to split a multi-language master into one file
// per language before targets that only accept single-track files.
func (f *FFmpeg) Remux(ctx context.Context, path string, trackIndex int, outputPath string) error {
	if path == "" || outputPath == "" {
		return errors.New("remux requires input and output paths")
	}
	if trackIndex < 0 {
		return fmt.Errorf("invalid audio track index %d", trackIndex)
	}

	args := []string{
		"-y",
		"-v", "error",
		"-i", path,
		"-map", "0:v",
		"-map", "0:a:" + strconv.Itoa(trackIndex),
		"-c", "copy",
		outputPath,
	}
	if out, err := commandContext(ctx, f.ffmpegBinary, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg remux track %d: %w: %s", trackIndex, err, string(out))
	}
	return nil
}
