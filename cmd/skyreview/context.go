package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"skyreview/internal/catalog"
	"skyreview/internal/config"
	"skyreview/internal/feedback"
	"skyreview/internal/journal"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

// configPath is the --config value, or "" to use the search order.
func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// catalogEntries loads the eligible articles of the configured batch.
func (c *commandContext) catalogEntries() (*config.Config, []catalog.Entry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	entries, err := catalog.Load(cfg.BatchDir())
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return cfg, entries, nil
}

// withFeedback opens the feedback store of the configured batch. When the
// journal is enabled, CLI edits are recorded under a fresh session id.
func (c *commandContext) withFeedback(fn func(*feedback.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	var opts []feedback.Option
	if cfg.Journal.Enabled {
		store, err := journal.Open(cfg.JournalPath())
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
		opts = append(opts, feedback.WithRecorder(journal.NewRecorder(store, "cli-"+uuid.NewString())))
	}
	return fn(feedback.Open(cfg.FeedbackPath(), nil, opts...))
}

// withJournal opens the journal, failing when it is disabled.
func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return errors.New("review journal is disabled; set [journal] enabled = true")
	}
	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// requireArticle rejects identifiers that are not eligible articles of the
// batch, so a typo never creates a stray feedback row.
func (c *commandContext) requireArticle(id string) error {
	_, entries, err := c.catalogEntries()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.ID == id {
			return nil
		}
	}
	return fmt.Errorf("article %q is not an eligible article of this batch", id)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

func commandContextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
