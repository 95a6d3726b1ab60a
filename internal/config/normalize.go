package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTracker()
	c.normalizeTargets()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.JournalDir, err = expandPath(c.Paths.JournalDir); err != nil {
		return fmt.Errorf("paths.journal_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTracker() {
	c.Tracker.URL = strings.TrimRight(strings.TrimSpace(c.Tracker.URL), "/")
	c.Tracker.Token = strings.TrimSpace(c.Tracker.Token)
	c.Tracker.Secret = strings.TrimSpace(c.Tracker.Secret)
	if c.Tracker.Token == "" {
		c.Tracker.Token = strings.TrimSpace(os.Getenv("LECTERN_TRACKER_TOKEN"))
	}
	if c.Tracker.Secret == "" {
		c.Tracker.Secret = strings.TrimSpace(os.Getenv("LECTERN_TRACKER_SECRET"))
	}
	if strings.TrimSpace(c.Tracker.TicketType) == "" {
		c.Tracker.TicketType = defaultTicketType
	}
	if strings.TrimSpace(c.Tracker.WorkerType) == "" {
		c.Tracker.WorkerType = defaultWorkerType
	}
	if strings.TrimSpace(c.Tracker.WorkerName) == "" {
		if host, err := os.Hostname(); err == nil {
			c.Tracker.WorkerName = host
		}
	}
	if c.Tracker.TimeoutSecs <= 0 {
		c.Tracker.TimeoutSecs = defaultTrackerTimeout
	}
}

func (c *Config) normalizeTargets() {
	c.Voctoweb.APIURL = strings.TrimRight(strings.TrimSpace(c.Voctoweb.APIURL), "/")
	c.Voctoweb.FrontendURL = strings.TrimRight(strings.TrimSpace(c.Voctoweb.FrontendURL), "/")
	if strings.TrimSpace(c.Voctoweb.LanguageTemplate) == "" {
		c.Voctoweb.LanguageTemplate = defaultVoctowebLangPattern
	}
	if strings.TrimSpace(c.Rclone.Binary) == "" {
		c.Rclone.Binary = defaultRcloneBinary
	}
	if c.Rclone.TimeoutSecs <= 0 {
		c.Rclone.TimeoutSecs = defaultRcloneTimeout
	}
	if strings.TrimSpace(c.Webhook.UserAgent) == "" {
		c.Webhook.UserAgent = defaultWebhookUserAgent
	}
	if c.Webhook.TimeoutSecs <= 0 {
		c.Webhook.TimeoutSecs = defaultWebhookTimeout
	}
	c.Mastodon.ServerURL = strings.TrimRight(strings.TrimSpace(c.Mastodon.ServerURL), "/")
	if c.Worker.PollIntervalSecs <= 0 {
		c.Worker.PollIntervalSecs = defaultPollInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
