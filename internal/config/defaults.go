package config

const (
	defaultDataDir            = "~/skyreview/data"
	defaultFeedbackDir        = "~/skyreview/feedback"
	defaultLogDir             = "~/.local/share/skyreview/logs"
	defaultBatch              = "202301"
	defaultServerBind         = "127.0.0.1:8501"
	defaultTextTimeoutSeconds = 10
	defaultJournalEnabled     = true
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			FeedbackDir: defaultFeedbackDir,
			LogDir:      defaultLogDir,
		},
		Review: Review{
			Batch: defaultBatch,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		ArticleText: ArticleText{
			TimeoutSeconds: defaultTextTimeoutSeconds,
		},
		Journal: Journal{
			Enabled: defaultJournalEnabled,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
