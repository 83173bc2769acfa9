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
	c.normalizeServer()
	c.normalizeArticleText()
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.FeedbackDir) == "" {
		c.Paths.FeedbackDir = defaultFeedbackDir
	}
	if c.Paths.FeedbackDir, err = expandPath(c.Paths.FeedbackDir); err != nil {
		return fmt.Errorf("paths.feedback_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Review.Batch = strings.TrimSpace(c.Review.Batch)
	if value, ok := os.LookupEnv("SKYREVIEW_BATCH"); ok && strings.TrimSpace(value) != "" {
		c.Review.Batch = strings.TrimSpace(value)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if value, ok := os.LookupEnv("SKYREVIEW_API_TOKEN"); ok {
		c.Server.APIToken = value
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
}

func (c *Config) normalizeArticleText() {
	if value, ok := os.LookupEnv("SKYREVIEW_TEXT_BASE_URL"); ok {
		c.ArticleText.BaseURL = value
	}
	c.ArticleText.BaseURL = strings.TrimRight(strings.TrimSpace(c.ArticleText.BaseURL), "/")
	if c.ArticleText.TimeoutSeconds <= 0 {
		c.ArticleText.TimeoutSeconds = defaultTextTimeoutSeconds
	}
}

func (c *Config) normalizeJournal() error {
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = ""
		return nil
	}
	var err error
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
