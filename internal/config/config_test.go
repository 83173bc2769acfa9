package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"skyreview/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, "skyreview", "data")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Server.Bind != "127.0.0.1:8501" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Review.Batch != "202301" {
		t.Fatalf("unexpected batch: %q", cfg.Review.Batch)
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled by default")
	}
	wantFeedback := filepath.Join(tempHome, "skyreview", "feedback", "202301", "feedback.csv")
	if cfg.FeedbackPath() != wantFeedback {
		t.Fatalf("unexpected feedback path: got %q want %q", cfg.FeedbackPath(), wantFeedback)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.FeedbackPath())} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.DataDir); !os.IsNotExist(err) {
		t.Fatalf("data dir must not be created, stat err=%v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "skyreview.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Review struct {
			Batch string `toml:"batch"`
		} `toml:"review"`
		ArticleText struct {
			BaseURL string `toml:"base_url"`
		} `toml:"article_text"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Review.Batch = "202402"
	custom.ArticleText.BaseURL = "https://texts.example.com/articles/"
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.BatchDir() != filepath.Join(tempDir, "data", "202402") {
		t.Fatalf("unexpected batch dir: %q", cfg.BatchDir())
	}
	if cfg.ArticleText.BaseURL != "https://texts.example.com/articles" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.ArticleText.BaseURL)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
	if cfg.ArticleText.TimeoutSeconds != config.Default().ArticleText.TimeoutSeconds {
		t.Fatalf("expected default timeout, got %d", cfg.ArticleText.TimeoutSeconds)
	}
}

func TestEnvOverridesBatchAndToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SKYREVIEW_BATCH", "202312")
	t.Setenv("SKYREVIEW_API_TOKEN", " secret ")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Review.Batch != "202312" {
		t.Errorf("expected batch from env, got %q", cfg.Review.Batch)
	}
	if cfg.Server.APIToken != "secret" {
		t.Errorf("expected trimmed token from env, got %q", cfg.Server.APIToken)
	}
}

func TestJournalPathDefaultsToBatchFeedbackDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.FeedbackDir = "/srv/feedback"
	cfg.Review.Batch = "b1"
	if got := cfg.JournalPath(); got != filepath.Join("/srv/feedback", "b1", "journal.db") {
		t.Fatalf("unexpected journal path %q", got)
	}
	cfg.Journal.Path = "/tmp/custom.db"
	if got := cfg.JournalPath(); got != "/tmp/custom.db" {
		t.Fatalf("expected override, got %q", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[review]") {
		t.Fatalf("sample config missing review section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Review.Batch == "" {
		t.Fatal("expected sample to set a batch")
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty batch", func(c *config.Config) { c.Review.Batch = "" }},
		{"nested batch", func(c *config.Config) { c.Review.Batch = "a/b" }},
		{"parent batch", func(c *config.Config) { c.Review.Batch = ".." }},
		{"bind without port", func(c *config.Config) { c.Server.Bind = "localhost" }},
		{"relative text url", func(c *config.Config) { c.ArticleText.BaseURL = "texts/articles" }},
		{"zero timeout", func(c *config.Config) { c.ArticleText.TimeoutSeconds = 0 }},
		{"unknown level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
