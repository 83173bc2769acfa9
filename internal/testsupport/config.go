package testsupport

import (
	"path/filepath"
	"testing"

	"skyreview/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.FeedbackDir = filepath.Join(base, "feedback")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Review.Batch = "202301"
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Journal.Enabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBatch selects the batch under review.
func WithBatch(batch string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Review.Batch = batch
	}
}

// WithAPIToken sets the bearer token required by the JSON API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.APIToken = token
	}
}

// WithTextBaseURL points remote article text lookups at baseURL.
func WithTextBaseURL(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.ArticleText.BaseURL = baseURL
	}
}

// WithJournal enables the review journal inside the temp tree.
func WithJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = true
		b.cfg.Journal.Path = filepath.Join(b.baseDir, "journal", "journal.db")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
