package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"skyreview/internal/config"
	"skyreview/internal/preflight"
)

const skipConfigAnnotation = "skipConfigLoad"

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Create or check the configuration file",
		GroupID: groupSetup,
	}
	cmd.AddCommand(newConfigInitCommand(ctx), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Long:        "Write a commented sample configuration to --path, the --config file, or ~/.config/skyreview/config.toml, in that order.",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath, ctx.configPath())
			if err != nil {
				return err
			}
			if !overwrite {
				_, statErr := os.Stat(target)
				switch {
				case statErr == nil:
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				case !errors.Is(statErr, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", statErr)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set review.batch (or SKYREVIEW_BATCH) to the batch you are reviewing, then run `skyreview config validate`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// initTarget picks where config init writes: --path, then --config, then the
// per-user default.
func initTarget(pathFlag, configFlag string) (string, error) {
	for _, candidate := range []string{pathFlag, configFlag} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			expanded, err := config.ExpandPath(candidate)
			if err != nil {
				return "", fmt.Errorf("resolve config path: %w", err)
			}
			return expanded, nil
		}
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

// config validate loads the file itself so it can report which file was
// used; directory and text source problems are listed as warnings.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and check the review directories",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolved, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			status := newStatusPrinter(cmd.OutOrStdout())
			if exists {
				status.line("Config", statusOK, resolved)
			} else {
				status.line("Config", statusWarn, resolved+" (not found, defaults used)")
			}
			status.line("Batch", statusInfo, cfg.BatchDir())
			status.line("Feedback file", statusInfo, cfg.FeedbackPath())
			for _, result := range preflight.RunAll(commandContextOrBackground(cmd), cfg) {
				if !result.Passed {
					status.line(result.Name, statusWarn, result.Detail)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}
}
