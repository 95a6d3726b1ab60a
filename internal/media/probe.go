package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

var commandContext = exec.CommandContext

// Info describes the probed shape of a rendered file.
type Info struct {
	Duration time.Duration
	Width    int
	Height   int
	// AudioTracks counts the audio streams in the container.
	AudioTracks int
}

// Prober inspects rendered files.
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
}

// Remuxer produces single-audio-track derivatives of a multi-language master.
type Remuxer interface {
	Remux(ctx context.Context, path string, trackIndex int, outputPath string) error
}

// FFmpeg implements Prober and Remuxer against the ffmpeg/ffprobe binaries.
type FFmpeg struct {
	ffmpegBinary  string
	ffprobeBinary string
}

// Option configures the FFmpeg client.
type Option func(*FFmpeg)

// WithBinaries overrides the default binary names.
func WithBinaries(ffmpeg, ffprobe string) Option {
	return func(f *FFmpeg) {
		if ffmpeg != "" {
			f.ffmpegBinary = ffmpeg
		}
		if ffprobe != "" {
			f.ffprobeBinary = ffprobe
		}
	}
}

// NewFFmpeg constructs a client using defaults.
func NewFFmpeg(opts ...Option) *FFmpeg {
	f := &FFmpeg{ffmpegBinary: "ffmpeg", ffprobeBinary: "ffprobe"}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Probe runs ffprobe and decodes streams and format duration.
func (f *FFmpeg) Probe(ctx context.Context, path string) (Info, error) {
	if path == "" {
		return Info{}, errors.New("probe path required")
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	out, err := commandContext(ctx, f.ffprobeBinary, args...).Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var payload struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return Info{}, fmt.Errorf("decode ffprobe output: %w", err)
	}

	info := Info{}
	if payload.Format.Duration != "" {
		seconds, err := strconv.ParseFloat(payload.Format.Duration, 64)
		if err == nil {
			info.Duration = time.Duration(seconds * float64(time.Second))
		}
	}
	for _, stream := range payload.Streams {
		switch stream.CodecType {
		case "video":
			if info.Width == 0 {
				info.Width = stream.Width
				info.Height = stream.Height
			}
		case "audio":
			info.AudioTracks++
		}
	}
	return info, nil
}

var _ Prober = (*FFmpeg)(nil)
var _ Remuxer = (*FFmpeg)(nil)
