package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"lectern/internal/announce"
	"lectern/internal/config"
	"lectern/internal/journal"
	"lectern/internal/logging"
	"lectern/internal/media"
	"lectern/internal/publish"
	"lectern/internal/targets/rclone"
	"lectern/internal/targets/voctoweb"
	"lectern/internal/targets/webhook"
	"lectern/internal/targets/youtube"
	"lectern/internal/tracker"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		OutputPaths: []string{
			"stderr",
			filepath.Join(cfg.Paths.LogDir, "lectern.log"),
		},
	})
}

// newOrchestrator wires every configured target adapter into the publish
// pipeline. Unconfigured targets stay nil and are never invoked.
func (c *commandContext) newOrchestrator(cfg *config.Config, logger *slog.Logger, store *journal.Store) *publish.Orchestrator {
	trackerClient := tracker.NewRPCClient(cfg)

	ffmpeg := media.NewFFmpeg(media.WithBinaries(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
	opts := []publish.Option{
		publish.WithLogger(logger),
		publish.WithRemuxer(ffmpeg),
		publish.WithProber(ffmpeg),
		publish.WithSync(rclone.NewCLI(cfg)),
		publish.WithWebhook(webhook.NewClient(cfg)),
		publish.WithAnnouncer(announce.NewService(cfg)),
	}
	if vw := voctoweb.NewClient(cfg); vw.Configured() {
		opts = append(opts, publish.WithMedia(vw))
	}
	if yt := youtube.NewClient(cfg); yt.Configured() {
		opts = append(opts, publish.WithVideo(yt))
	}
	if store != nil {
		opts = append(opts, publish.WithJournal(store))
	}
	return publish.New(cfg, trackerClient, opts...)
}
