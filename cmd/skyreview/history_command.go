package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"skyreview/internal/api"
	"skyreview/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var articleID string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent feedback changes from the review journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative (got %d)", limit)
			}
			return ctx.withJournal(func(store *journal.Store) error {
				events, err := store.List(commandContextOrBackground(cmd), journal.Filter{
					ArticleID: strings.TrimSpace(articleID),
					Limit:     limit,
				})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, api.FromEvents(events))
				}

				out := cmd.OutOrStdout()
				if len(events) == 0 {
					fmt.Fprintln(out, "No journal entries")
					return nil
				}
				rows := make([][]string, 0, len(events))
				for _, event := range events {
					session := event.SessionID
					if len(session) > 8 {
						session = session[:8]
					}
					rows = append(rows, []string{
						strconv.FormatInt(event.ID, 10),
						event.At.Local().Format("2006-01-02 15:04:05"),
						session,
						event.ArticleID,
						event.Action,
						event.Value,
					})
				}
				fmt.Fprintln(out, renderTable([]column{
					{title: "ID", numeric: true},
					{title: "Time"},
					{title: "Session"},
					{title: "Article"},
					{title: "Action"},
					{title: "Value", wrap: true},
				}, rows, ""))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&articleID, "article", "", "Only show changes to this article")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
