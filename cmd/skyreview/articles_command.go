package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"skyreview/internal/api"
	"skyreview/internal/feedback"
)

func newArticlesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "articles",
		Short: "List the eligible articles of the batch with their review state",
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

			summary := api.FromEntries(cfg.Review.Batch, entries, table, -1)
			if asJSON {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			if len(summary.Articles) == 0 {
				fmt.Fprintf(out, "No eligible articles in %s\n", cfg.BatchDir())
				return nil
			}
			rows := make([][]string, 0, len(summary.Articles))
			reviewed := 0
			for _, article := range summary.Articles {
				visible := article.Visible
				if visible == "" {
					visible = "-"
				} else {
					reviewed++
				}
				rows = append(rows, []string{
					strconv.Itoa(article.Index),
					article.ID,
					article.EventType,
					article.LocationName,
					article.Source,
					visible,
					yesNo(article.HasNotes),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{title: "#", numeric: true},
				{title: "Article"},
				{title: "Event"},
				{title: "Location", wrap: true},
				{title: "Source"},
				{title: "Visible"},
				{title: "Notes"},
			}, rows, fmt.Sprintf("%d of %d articles judged in batch %s", reviewed, len(rows), cfg.Review.Batch)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
