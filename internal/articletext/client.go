package articletext

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"skyreview/internal/logging"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxBodyBytes       = 4 << 20
)

// Config captures the remote text source settings.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Client fetches "<base>/<article_id>.md" documents and remembers the outcome
// per article until Invalidate.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	cache map[string]result
}

type result struct {
	text string
	ok   bool
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a client. An empty BaseURL disables remote lookups.
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(logger, "articletext"),
		cache:      make(map[string]result),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Enabled reports whether a remote source is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.BaseURL != ""
}

// Fetch returns the remote text for articleID. It reports false when the
// source is disabled or the fetch failed; failures are logged, never returned.
func (c *Client) Fetch(ctx context.Context, articleID string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}

	c.mu.Lock()
	cached, hit := c.cache[articleID]
	c.mu.Unlock()
	if hit {
		return cached.text, cached.ok
	}

	text, err := c.get(ctx, articleID)
	res := result{text: text, ok: err == nil}
	if err != nil {
		logging.WarnWithContext(c.logger, "article text unavailable", "article_text_fetch_failed",
			logging.String(logging.FieldArticleID, articleID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check article_text.base_url and network access"),
			logging.String(logging.FieldImpact, "descriptor article body shown instead"))
		if ctx.Err() != nil {
			return "", false
		}
	}

	c.mu.Lock()
	c.cache[articleID] = res
	c.mu.Unlock()
	return res.text, res.ok
}

// Invalidate forgets every cached outcome.
func (c *Client) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.cache = make(map[string]result)
	c.mu.Unlock()
}

// DocumentURL returns the remote location of an article's text.
func (c *Client) DocumentURL(articleID string) string {
	return c.cfg.BaseURL + "/" + url.PathEscape(articleID) + ".md"
}

func (c *Client) get(ctx context.Context, articleID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DocumentURL(articleID), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("get article text: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read article text: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("get article text: http %d: %s", resp.StatusCode, strings.TrimSpace(snippet(body)))
	}
	return string(body), nil
}

func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
