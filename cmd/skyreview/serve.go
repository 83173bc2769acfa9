package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"skyreview/internal/articletext"
	"skyreview/internal/catalog"
	"skyreview/internal/config"
	"skyreview/internal/feedback"
	"skyreview/internal/journal"
	"skyreview/internal/logging"
	"skyreview/internal/preflight"
	"skyreview/internal/review"
	"skyreview/internal/web"
)

type serveOptions struct {
	bind     string
	logLevel string
	// ready, when set, receives the bound address once the server listens.
	ready func(addr string)
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the review web server for the configured batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts.ready = func(addr string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Reviewing batch %s at http://%s/\n", cfg.Review.Batch, addr)
			}
			return runServe(commandContextOrBackground(cmd), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.bind, "bind", "", "Override server.bind (host:port)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Override logging.level")
	return cmd
}

func runServe(cmdCtx context.Context, cfg *config.Config, opts serveOptions) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logName := logging.RunLogName(time.Now())
	logCfg := *cfg
	if opts.logLevel != "" {
		logCfg.Logging.Level = opts.logLevel
	}
	logger, err := logging.NewFromConfig(&logCfg, logName)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays,
		filepath.Join(cfg.Paths.LogDir, logName+".log"))

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another review server is already running for batch %s (lock %s)", cfg.Review.Batch, cfg.LockPath())
	}
	defer func() {
		_ = lock.Unlock()
	}()

	for _, result := range preflight.Failed(preflight.RunAll(signalCtx, cfg)) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldImpact, "the review page may show missing content or fail to save"),
		)
	}

	sessionID := uuid.NewString()
	logger = logging.NewSessionLogger(logger, sessionID)

	var journalStore *journal.Store
	var storeOpts []feedback.Option
	if cfg.Journal.Enabled {
		journalStore, err = journal.Open(cfg.JournalPath())
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer journalStore.Close()
		storeOpts = append(storeOpts, feedback.WithRecorder(journal.NewRecorder(journalStore, sessionID)))
	}
	store := feedback.Open(cfg.FeedbackPath(), logger, storeOpts...)

	cache := catalog.NewCache(cfg.BatchDir(), logger)
	entries, err := cache.Entries()
	if err != nil {
		logging.ErrorWithContext(logger, "catalog load failed", "catalog_load_failed",
			logging.String(logging.FieldBatch, cfg.Review.Batch),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the descriptor named in the error and restart"),
		)
		return fmt.Errorf("load catalog: %w", err)
	}

	svcOpts := []review.Option{review.WithLogger(logger)}
	if cfg.ArticleText.BaseURL != "" {
		svcOpts = append(svcOpts, review.WithTextClient(articletext.NewClient(articletext.Config{
			BaseURL:        cfg.ArticleText.BaseURL,
			TimeoutSeconds: cfg.ArticleText.TimeoutSeconds,
		}, logger)))
	}
	if journalStore != nil {
		svcOpts = append(svcOpts, review.WithJournal(journalStore))
	}
	svc := review.NewService(cache, store, svcOpts...)
	session := review.NewSession(sessionID, len(entries))

	bind := cfg.Server.Bind
	if opts.bind != "" {
		bind = opts.bind
	}
	srv, err := web.New(svc, session, web.Options{
		Bind:     bind,
		APIToken: cfg.Server.APIToken,
		Batch:    cfg.Review.Batch,
		Logger:   logger,
		Journal:  journalStore,
	})
	if err != nil {
		return err
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	logger.Info("review session started",
		slog.String(logging.FieldBatch, cfg.Review.Batch),
		slog.Int("articles", len(entries)),
		slog.String("feedback_path", store.Path()),
		slog.Bool("journal", journalStore != nil),
		slog.String(logging.FieldEventType, "session_started"),
	)
	if opts.ready != nil {
		opts.ready(srv.Addr())
	}

	group, groupCtx := errgroup.WithContext(signalCtx)
	group.Go(func() error {
		return srv.Serve(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown requested", slog.String(logging.FieldEventType, "session_stopping"))
		return nil
	})
	if err := group.Wait(); err != nil {
		return err
	}

	progress, err := svc.Progress(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to compute progress: %v\n", err)
		return nil
	}
	logger.Info("review session ended",
		slog.String("progress", progress.String()),
		slog.String(logging.FieldEventType, "session_stopped"),
	)
	return nil
}
