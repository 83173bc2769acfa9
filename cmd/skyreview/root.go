package main

import (
	"github.com/spf13/cobra"
)

const (
	groupReview = "review"
	groupSetup  = "setup"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := newCommandContext(&configFlag)

	root := &cobra.Command{
		Use:   "skyreview",
		Short: "Review satellite imagery evidence for news events",
		Long: "skyreview serves one batch of articles with their satellite imagery for a reviewer\n" +
			"to judge, and records the judgments in <feedback_dir>/<batch>/feedback.csv.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	root.AddGroup(
		&cobra.Group{ID: groupReview, Title: "Review:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)
	for _, cmd := range []*cobra.Command{
		newServeCommand(ctx),
		newArticlesCommand(ctx),
		newProgressCommand(ctx),
		newFeedbackCommand(ctx),
		newHistoryCommand(ctx),
	} {
		cmd.GroupID = groupReview
		root.AddCommand(cmd)
	}
	root.AddCommand(newConfigCommand(ctx))
	root.SetHelpCommandGroupID(groupSetup)
	root.SetCompletionCommandGroupID(groupSetup)

	return root
}
