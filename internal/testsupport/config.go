package testsupport

import (
	"path/filepath"
	"testing"

	"lectern/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories and tracker
// credentials that pass validation. It defaults common fields and applies any
// provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.JournalDir = filepath.Join(base, "journal")
	cfg.Tracker.URL = "https://tracker.example.org/rpc"
	cfg.Tracker.Token = "test-token"
	cfg.Tracker.Secret = "test-secret"
	cfg.Tracker.WorkerName = "test-worker"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithVoctoweb enables the media platform target on the test config.
func WithVoctoweb(apiURL, frontendURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Voctoweb.APIURL = apiURL
		cfg.Voctoweb.APIKey = "test-api-key"
		cfg.Voctoweb.FrontendURL = frontendURL
	}
}

// WithTrackerURL overrides the tracker endpoint on the test config.
func WithTrackerURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tracker.URL = url
	}
}
