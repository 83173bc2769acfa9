package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateReview(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateArticleText(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateReview() error {
	batch := c.Review.Batch
	if batch == "" {
		return errors.New("review.batch must be set (or export SKYREVIEW_BATCH)")
	}
	if batch == "." || batch == ".." || strings.ContainsAny(batch, `/\`) {
		return fmt.Errorf("review.batch %q must be a single directory name", batch)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Bind == "" {
		return errors.New("server.bind must be set")
	}
	if !strings.Contains(c.Server.Bind, ":") {
		return fmt.Errorf("server.bind %q must be host:port", c.Server.Bind)
	}
	return nil
}

func (c *Config) validateArticleText() error {
	if c.ArticleText.TimeoutSeconds <= 0 {
		return errors.New("article_text.timeout_seconds must be positive")
	}
	if c.ArticleText.BaseURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.ArticleText.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("article_text.base_url %q must be an absolute URL", c.ArticleText.BaseURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error (got %q)", c.Logging.Level)
	}
}
