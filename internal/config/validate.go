package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTracker(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateWorker(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTracker() error {
	if strings.TrimSpace(c.Tracker.URL) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/lectern/config.toml"
		}
		return fmt.Errorf("tracker.url is required. Edit %s (create with 'lectern config init')", defaultPath)
	}
	if c.Tracker.Token == "" {
		return errors.New("tracker.token is required. Set it in the config file or via LECTERN_TRACKER_TOKEN")
	}
	if c.Tracker.Secret == "" {
		return errors.New("tracker.secret is required. Set it in the config file or via LECTERN_TRACKER_SECRET")
	}
	switch c.Tracker.WorkerType {
	case "publish":
	case "download":
		return errors.New("tracker.worker_type \"download\" is not supported by this worker")
	default:
		return fmt.Errorf("tracker.worker_type: unsupported value %q", c.Tracker.WorkerType)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateWorker() error {
	if c.Worker.PollIntervalSecs < 1 {
		return errors.New("worker.poll_interval must be at least 1 second")
	}
	return nil
}
