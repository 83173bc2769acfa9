package preflight

import (
	"context"

	"skyreview/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Batch directory", cfg.BatchDir(), ReadOnly),
		CheckDirectoryAccess("Feedback directory", feedbackDir(cfg), ReadWrite),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, ReadWrite),
	}

	if cfg.ArticleText.BaseURL != "" {
		results = append(results, CheckTextSource(ctx, cfg.ArticleText.BaseURL))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
