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
	DataDir     string `toml:"data_dir"`
	FeedbackDir string `toml:"feedback_dir"`
	LogDir      string `toml:"log_dir"`
}

// Review selects the batch under review.
type Review struct {
	Batch string `toml:"batch"`
}

// Server contains configuration for the review web server.
type Server struct {
	Bind     string `toml:"bind"`
	APIToken string `toml:"api_token"`
}

// ArticleText contains configuration for the remote article text source.
// An empty BaseURL disables remote lookups; descriptor content is still shown.
type ArticleText struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Journal contains configuration for the review action journal.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Default: <feedback_dir>/<batch>/journal.db
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for skyreview.
//
// Configuration sections by subsystem:
//   - Paths: article data, feedback output and log directories
//   - Review: the batch (subdirectory of data_dir) under review
//   - Server: review web server bind address and API token
//   - ArticleText: optional remote article text source
//   - Journal: SQLite journal of review actions
//   - Logging: log format, level, and retention
type Config struct {
	Paths       Paths       `toml:"paths"`
	Review      Review      `toml:"review"`
	Server      Server      `toml:"server"`
	ArticleText ArticleText `toml:"article_text"`
	Journal     Journal     `toml:"journal"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/skyreview/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
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

	projectPath, err := filepath.Abs("skyreview.toml")
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

// BatchDir returns the directory holding the article subdirectories of the
// configured batch.
func (c *Config) BatchDir() string {
	return filepath.Join(c.Paths.DataDir, c.Review.Batch)
}

// FeedbackPath returns the feedback CSV location for the configured batch.
func (c *Config) FeedbackPath() string {
	return filepath.Join(c.Paths.FeedbackDir, c.Review.Batch, "feedback.csv")
}

// LockPath returns the lock file guarding a batch against a second review server.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.FeedbackDir, c.Review.Batch, ".review.lock")
}

// JournalPath returns the journal database location.
func (c *Config) JournalPath() string {
	if strings.TrimSpace(c.Journal.Path) != "" {
		return c.Journal.Path
	}
	return filepath.Join(c.Paths.FeedbackDir, c.Review.Batch, "journal.db")
}

// EnsureDirectories creates the output directories. The data directory is
// read-only input and is never created.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, filepath.Dir(c.FeedbackPath())} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Journal.Enabled {
		if err := os.MkdirAll(filepath.Dir(c.JournalPath()), 0o755); err != nil {
			return fmt.Errorf("create journal directory: %w", err)
		}
	}
	return nil
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
