package main

import (
	"os"

	"github.com/spf13/cobra"

	"skyreview/internal/api"
	"skyreview/internal/feedback"
	"skyreview/internal/preflight"
	"skyreview/internal/review"
)

func newProgressCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show how many articles carry a visibility judgment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, entries, err := ctx.catalogEntries()
			if err != nil {
				return err
			}
			var table *feedback.Table
			err = ctx.withFeedback(func(store *feedback.Store) error {
				var loadErr error
				table, loadErr = store.Load(commandContextOrBackground(cmd))
				return loadErr
			})
			if err != nil {
				return err
			}
			progress := review.Progress{Reviewed: table.ReviewedCount(), Total: len(entries)}
			if asJSON {
				return writeJSON(cmd, api.FromProgress(progress))
			}

			status := newStatusPrinter(cmd.OutOrStdout())
			status.line("Batch", statusInfo, cfg.Review.Batch)
			status.line("Progress", progressKind(progress), progress.String())
			status.line("Feedback", feedbackKind(cfg.FeedbackPath()), cfg.FeedbackPath())
			journalKind, journalText := statusInfo, "Disabled"
			if cfg.Journal.Enabled {
				journalKind, journalText = statusOK, cfg.JournalPath()
			}
			status.line("Journal", journalKind, journalText)
			for _, result := range preflight.RunAll(commandContextOrBackground(cmd), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				status.line(result.Name, kind, result.Detail)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func progressKind(p review.Progress) statusKind {
	switch {
	case p.Total == 0:
		return statusWarn
	case p.Reviewed >= p.Total:
		return statusOK
	default:
		return statusInfo
	}
}

func feedbackKind(path string) statusKind {
	if _, err := os.Stat(path); err != nil {
		return statusWarn
	}
	return statusOK
}
