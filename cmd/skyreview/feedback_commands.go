package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skyreview/internal/api"
	"skyreview/internal/feedback"
)

func newFeedbackCommand(ctx *commandContext) *cobra.Command {
	feedbackCmd := &cobra.Command{
		Use:   "feedback",
		Short: "Inspect and edit the batch feedback file",
	}

	feedbackCmd.AddCommand(newFeedbackShowCommand(ctx))
	feedbackCmd.AddCommand(newFeedbackEditCommand(ctx, feedbackEdit{
		use:   "visibility <article> <Yes|No|Unsure>",
		short: "Record a visibility judgment",
		args:  2,
		run: func(ctx context.Context, store *feedback.Store, args []string) (string, error) {
			visibility, err := feedback.ParseVisibility(args[1])
			if err != nil {
				return "", err
			}
			if err := store.SetVisibility(ctx, args[0], visibility); err != nil {
				return "", err
			}
			return fmt.Sprintf("Saved %s for %s", visibility, args[0]), nil
		},
	}))
	feedbackCmd.AddCommand(newFeedbackEditCommand(ctx, feedbackEdit{
		use:   "undo <article>",
		short: "Clear a visibility judgment",
		args:  1,
		run: func(ctx context.Context, store *feedback.Store, args []string) (string, error) {
			if err := store.ClearVisibility(ctx, args[0]); err != nil {
				return "", err
			}
			return fmt.Sprintf("Cleared visibility for %s", args[0]), nil
		},
	}))
	feedbackCmd.AddCommand(newFeedbackEditCommand(ctx, feedbackEdit{
		use:   "note <article> <text>",
		short: "Replace the notes of an article",
		args:  2,
		run: func(ctx context.Context, store *feedback.Store, args []string) (string, error) {
			if err := store.SetNote(ctx, args[0], args[1]); err != nil {
				return "", err
			}
			return fmt.Sprintf("Saved notes for %s", args[0]), nil
		},
	}))
	feedbackCmd.AddCommand(newFeedbackEditCommand(ctx, feedbackEdit{
		use:   "dates <article> <start> <end>",
		short: "Record corrected start and end dates (YYYY-MM-DD or \"\")",
		args:  3,
		run: func(ctx context.Context, store *feedback.Store, args []string) (string, error) {
			start, end := strings.TrimSpace(args[1]), strings.TrimSpace(args[2])
			if err := store.SetCorrectedDates(ctx, args[0], start, end); err != nil {
				if errors.Is(err, feedback.ErrPreconditionNotMet) {
					return "", fmt.Errorf("record a visibility judgment for %s first: %w", args[0], err)
				}
				return "", err
			}
			return fmt.Sprintf("Saved dates for %s", args[0]), nil
		},
	}))
	feedbackCmd.AddCommand(newFeedbackEditCommand(ctx, clearDateEdit("clear-start", "start", (*feedback.Store).ClearStartDate)))
	feedbackCmd.AddCommand(newFeedbackEditCommand(ctx, clearDateEdit("clear-end", "end", (*feedback.Store).ClearEndDate)))

	return feedbackCmd
}

type feedbackEdit struct {
	use   string
	short string
	args  int
	run   func(ctx context.Context, store *feedback.Store, args []string) (string, error)
}

func newFeedbackEditCommand(ctx *commandContext, edit feedbackEdit) *cobra.Command {
	return &cobra.Command{
		Use:   edit.use,
		Short: edit.short,
		Args:  cobra.ExactArgs(edit.args),
		RunE: func(cmd *cobra.Command, args []string) error {
			args[0] = strings.TrimSpace(args[0])
			if err := ctx.requireArticle(args[0]); err != nil {
				return err
			}
			return ctx.withFeedback(func(store *feedback.Store) error {
				message, err := edit.run(commandContextOrBackground(cmd), store, args)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}
}

func clearDateEdit(name, which string, clear func(*feedback.Store, context.Context, string) error) feedbackEdit {
	return feedbackEdit{
		use:   name + " <article>",
		short: "Empty the corrected " + which + " date",
		args:  1,
		run: func(ctx context.Context, store *feedback.Store, args []string) (string, error) {
			_, exists, err := store.Get(ctx, args[0])
			if err != nil {
				return "", err
			}
			if !exists {
				return fmt.Sprintf("No feedback for %s yet; nothing to clear", args[0]), nil
			}
			if err := clear(store, ctx, args[0]); err != nil {
				return "", err
			}
			return fmt.Sprintf("Cleared %s date for %s", which, args[0]), nil
		},
	}
}

func newFeedbackShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [article]",
		Short: "Show feedback rows, optionally for one article",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withFeedback(func(store *feedback.Store) error {
				table, err := store.Load(commandContextOrBackground(cmd))
				if err != nil {
					return err
				}
				records := table.Records()
				if len(args) == 1 {
					record, ok := table.Get(strings.TrimSpace(args[0]))
					if !ok {
						return fmt.Errorf("no feedback recorded for %s", args[0])
					}
					records = []feedback.Record{record}
				}

				if asJSON {
					rows := make([]api.FeedbackRow, 0, len(records))
					for _, record := range records {
						rows = append(rows, api.FromRecord(record))
					}
					return writeJSON(cmd, api.FeedbackListResponse{Path: store.Path(), Rows: rows})
				}

				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintf(out, "No feedback recorded in %s\n", store.Path())
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.ArticleID,
						fieldCell(record.Visible),
						fieldCell(record.NewStartDate),
						fieldCell(record.NewEndDate),
						fieldCell(record.Notes),
					})
				}
				fmt.Fprintln(out, renderTable(feedbackColumns(feedback.Columns), rows, ""))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// fieldCell distinguishes an absent value from an empty one.
func fieldCell(f feedback.Field) string {
	if !f.Set {
		return "-"
	}
	if f.Value == "" {
		return `""`
	}
	return f.Value
}
