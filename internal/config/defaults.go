package config

const (
	defaultOutputDir           = "~/.local/share/lectern/output"
	defaultLogDir              = "~/.local/share/lectern/logs"
	defaultJournalDir          = "~/.local/share/lectern/journal"
	defaultTicketType          = "encoding"
	defaultWorkerType          = "publish"
	defaultTrackerTimeout      = 30
	defaultPollInterval        = 30
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultRcloneBinary        = "rclone"
	defaultRcloneTimeout       = 3600
	defaultWebhookUserAgent    = "lectern/0.1"
	defaultWebhookTimeout      = 10
	defaultVoctowebLangPattern = "%s-%s"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			JournalDir: defaultJournalDir,
		},
		Tracker: Tracker{
			TicketType:  defaultTicketType,
			WorkerType:  defaultWorkerType,
			TimeoutSecs: defaultTrackerTimeout,
		},
		Voctoweb: Voctoweb{
			LanguageTemplate: defaultVoctowebLangPattern,
		},
		Rclone: Rclone{
			Binary:      defaultRcloneBinary,
			TimeoutSecs: defaultRcloneTimeout,
		},
		Webhook: Webhook{
			UserAgent:   defaultWebhookUserAgent,
			TimeoutSecs: defaultWebhookTimeout,
		},
		Worker: Worker{
			PollIntervalSecs: defaultPollInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
