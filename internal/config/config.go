package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	JournalDir string `toml:"journal_dir"`
}

// Tracker contains configuration for the release ticket tracker.
type Tracker struct {
	URL         string `toml:"url"`
	Token       string `toml:"token"`
	Secret      string `toml:"secret"`
	TicketType  string `toml:"ticket_type"`
	WorkerType  string `toml:"worker_type"`
	WorkerName  string `toml:"worker_name"`
	TimeoutSecs int    `toml:"timeout_seconds"`
}

// Voctoweb contains credentials for the media CDN frontend.
type Voctoweb struct {
	APIURL           string `toml:"api_url"`
	APIKey           string `toml:"api_key"`
	FrontendURL      string `toml:"frontend_url"`
	LanguageTemplate string `toml:"language_template"`
}

// YouTube contains credentials for the video platform.
type YouTube struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
}

// Rclone contains settings for the generic file-sync target.
type Rclone struct {
	Binary      string `toml:"binary"`
	TimeoutSecs int    `toml:"timeout_seconds"`
}

// Webhook contains settings for the outbound release webhook.
type Webhook struct {
	UserAgent   string `toml:"user_agent"`
	TimeoutSecs int    `toml:"timeout_seconds"`
}

// Mastodon contains credentials for release announcements.
type Mastodon struct {
	ServerURL   string `toml:"server_url"`
	AccessToken string `toml:"access_token"`
}

// Worker contains polling and run-mode settings.
type Worker struct {
	PollIntervalSecs int `toml:"poll_interval"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for lectern.
//
// Configuration sections by subsystem:
//   - Paths: working directories for staged files, logs, and the journal
//   - Tracker: ticket tracker endpoint, credentials, and worker identity
//   - Voctoweb / YouTube / Rclone / Webhook / Mastodon: per-target credentials
//   - Worker: claim polling interval
//   - Logging: log format and level
//   - PropertyDefaults: event-wide fallback values for optional ticket
//     properties, keyed by the property name a ticket would carry
type Config struct {
	Paths            Paths             `toml:"paths"`
	Tracker          Tracker           `toml:"tracker"`
	Voctoweb         Voctoweb          `toml:"voctoweb"`
	YouTube          YouTube           `toml:"youtube"`
	Rclone           Rclone            `toml:"rclone"`
	Webhook          Webhook           `toml:"webhook"`
	Mastodon         Mastodon          `toml:"mastodon"`
	Worker           Worker            `toml:"worker"`
	Logging          Logging           `toml:"logging"`
	PropertyDefaults map[string]string `toml:"property_defaults"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lectern/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lectern.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for worker operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir, c.Paths.JournalDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PropertyDefault returns the event-wide fallback value for a ticket
// property, if one is configured.
func (c *Config) PropertyDefault(key string) (string, bool) {
	if len(c.PropertyDefaults) == 0 {
		return "", false
	}
	if value, ok := c.PropertyDefaults[key]; ok {
		return value, true
	}
	// Property keys are conventionally dotted and case-insensitive.
	for k, v := range c.PropertyDefaults {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// FFmpegBinary returns the ffmpeg executable name used for audio remuxing.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
