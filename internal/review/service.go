package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"skyreview/internal/articletext"
	"skyreview/internal/catalog"
	"skyreview/internal/feedback"
	"skyreview/internal/imagery"
	"skyreview/internal/journal"
	"skyreview/internal/logging"
)

const historyLimit = 10

// Service ties navigation state to the catalog and the feedback store.
// Callers serialize access to a Session.
type Service struct {
	catalog *catalog.Cache
	store   *feedback.Store
	text    *articletext.Client
	journal *journal.Store
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTextClient enables remote article text.
func WithTextClient(client *articletext.Client) Option {
	return func(s *Service) {
		s.text = client
	}
}

// WithJournal shows recent journal history for each article.
func WithJournal(store *journal.Store) Option {
	return func(s *Service) {
		s.journal = store
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds a review service.
func NewService(cache *catalog.Cache, store *feedback.Store, opts ...Option) *Service {
	s := &Service{
		catalog: cache,
		store:   store,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "review")
	return s
}

// Store returns the feedback store the service writes through.
func (s *Service) Store() *feedback.Store {
	return s.store
}

// Articles returns the cached catalog.
func (s *Service) Articles() ([]catalog.Entry, error) {
	return s.catalog.Entries()
}

// NewSession starts a session sized to the current catalog.
func (s *Service) NewSession(id string) (*Session, error) {
	entries, err := s.catalog.Entries()
	if err != nil {
		return nil, err
	}
	return NewSession(id, len(entries)), nil
}

// Progress counts articles with a visibility judgment against the catalog.
func (s *Service) Progress(ctx context.Context) (Progress, error) {
	entries, err := s.catalog.Entries()
	if err != nil {
		return Progress{}, err
	}
	table, err := s.store.Load(ctx)
	if err != nil {
		return Progress{}, err
	}
	return Progress{Reviewed: table.ReviewedCount(), Total: len(entries)}, nil
}

// Reload rescans the batch, drops cached article text and keeps the session
// within the new catalog size.
func (s *Service) Reload(sess *Session) error {
	entries, err := s.catalog.Reload()
	if err != nil {
		sess.SetFlash(FlashError, "Reload failed: %v", err)
		return err
	}
	s.text.Invalidate()
	s.settle(sess, entries)
	sess.SetFlash(FlashInfo, "Reloaded %d articles.", len(entries))
	return nil
}

// Next moves to the following article, wrapping at the end.
func (s *Service) Next(sess *Session) error {
	if err := s.sync(sess); err != nil {
		return err
	}
	_, err := sess.Next()
	return err
}

// Previous moves to the preceding article, wrapping at the start.
func (s *Service) Previous(sess *Session) error {
	if err := s.sync(sess); err != nil {
		return err
	}
	_, err := sess.Previous()
	return err
}

// JumpTo selects an article by index; out-of-range indexes leave the session
// untouched and queue an error message.
func (s *Service) JumpTo(sess *Session, index int) error {
	if err := s.sync(sess); err != nil {
		return err
	}
	if err := sess.JumpTo(index); err != nil {
		if errors.Is(err, ErrOutOfRange) {
			sess.SetFlash(FlashError, "Article index %d is out of range (0 to %d).", index, sess.Size()-1)
		}
		return err
	}
	return nil
}

// SetVisibility records a Yes/No/Unsure judgment for the current article.
func (s *Service) SetVisibility(ctx context.Context, sess *Session, value string) error {
	entry, err := s.current(sess)
	if err != nil {
		return err
	}
	visibility, err := feedback.ParseVisibility(value)
	if err != nil {
		sess.SetFlash(FlashError, "Unknown visibility %q.", value)
		return err
	}
	if err := s.store.SetVisibility(ctx, entry.ID, visibility); err != nil {
		return s.failed(sess, entry.ID, "save visibility", err)
	}
	sess.SetFlash(FlashSuccess, "Saved %s.", visibility)
	return nil
}

// UndoVisibility clears the current article's judgment.
func (s *Service) UndoVisibility(ctx context.Context, sess *Session) error {
	entry, err := s.current(sess)
	if err != nil {
		return err
	}
	if err := s.store.ClearVisibility(ctx, entry.ID); err != nil {
		return s.failed(sess, entry.ID, "undo visibility", err)
	}
	sess.SetFlash(FlashInfo, "Visibility judgment cleared.")
	return nil
}

// SaveDates writes corrected start and end dates. The inputs are kept as a
// draft when the save is rejected.
func (s *Service) SaveDates(ctx context.Context, sess *Session, start, end string) error {
	entry, err := s.current(sess)
	if err != nil {
		return err
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if err := s.store.SetCorrectedDates(ctx, entry.ID, start, end); err != nil {
		sess.SetDateDraft(start, end)
		switch {
		case errors.Is(err, feedback.ErrPreconditionNotMet):
			sess.SetFlash(FlashError, "Cannot save dates yet: select Yes, Unsure or No first.")
			return err
		case errors.Is(err, feedback.ErrInvalidDate):
			sess.SetFlash(FlashError, "Dates must be YYYY-MM-DD or empty: %v", err)
			return err
		}
		return s.failed(sess, entry.ID, "save dates", err)
	}
	sess.ClearDateDraft()
	sess.SetFlash(FlashSuccess, "Submitted corrected dates.")
	return nil
}

// ClearStartDate empties the corrected start date.
func (s *Service) ClearStartDate(ctx context.Context, sess *Session) error {
	return s.clearDate(ctx, sess, "start", s.store.ClearStartDate)
}

// ClearEndDate empties the corrected end date.
func (s *Service) ClearEndDate(ctx context.Context, sess *Session) error {
	return s.clearDate(ctx, sess, "end", s.store.ClearEndDate)
}

func (s *Service) clearDate(ctx context.Context, sess *Session, which string, clear func(context.Context, string) error) error {
	entry, err := s.current(sess)
	if err != nil {
		return err
	}
	_, exists, err := s.store.Get(ctx, entry.ID)
	if err != nil {
		return s.failed(sess, entry.ID, "clear "+which+" date", err)
	}
	if !exists {
		sess.SetFlash(FlashError, "Cannot clear %s date yet: select Yes, Unsure or No, or add a note first.", which)
		return nil
	}
	if err := clear(ctx, entry.ID); err != nil {
		return s.failed(sess, entry.ID, "clear "+which+" date", err)
	}
	sess.ClearDateDraft()
	sess.SetFlash(FlashSuccess, "Cleared corrected %s date.", which)
	return nil
}

// SaveNote writes the notes field, leaving the judgment and dates alone.
func (s *Service) SaveNote(ctx context.Context, sess *Session, text string) error {
	entry, err := s.current(sess)
	if err != nil {
		return err
	}
	if err := s.store.SetNote(ctx, entry.ID, text); err != nil {
		sess.SetNoteDraft(text)
		return s.failed(sess, entry.ID, "save note", err)
	}
	sess.ClearNoteDraft()
	sess.SetFlash(FlashSuccess, "Submitted notes.")
	return nil
}

// View assembles the current article's page state and consumes the queued
// flash message.
func (s *Service) View(ctx context.Context, sess *Session) (*ArticleView, error) {
	entries, err := s.catalog.Entries()
	if err != nil {
		return nil, err
	}
	entry, ok := s.settle(sess, entries)
	if !ok {
		return nil, ErrEmptyCatalog
	}
	article := entry.Article

	table, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	view := &ArticleView{
		Index:            sess.Index(),
		Total:            len(entries),
		ID:               entry.ID,
		Article:          article,
		Location:         NewLocation(article),
		OriginalCaption:  article.InitialCaption,
		OriginalTimeline: article.InitialTimeline.Lines(),
		EventType:        article.EventType,
		EventCaption:     article.EventCaption,
		Assessment: Assessment{
			Show:       article.HasInitialAssessment(),
			Success:    article.InitialSuccessText(),
			Reason:     strings.TrimSpace(article.InitialVisualReason),
			Confidence: article.InitialConfidenceText(),
		},
		SourceHeading: SourceHeading(article.Source),
		Progress:      Progress{Reviewed: table.ReviewedCount(), Total: len(entries)},
	}

	s.fillText(ctx, view, entry)

	start, startOK := article.PredictedStart()
	end, endOK := article.PredictedEnd()
	view.PredictedStart = predictedLabel(start.Format(time.DateOnly), startOK)
	view.PredictedEnd = predictedLabel(end.Format(time.DateOnly), endOK)

	req := imagery.Request{Dir: entry.ImageryDir(), Timeline: article.SatTimeline, Source: article.Source}
	if startOK {
		req.Start = start
	}
	if endOK {
		req.End = end
	}
	gallery, err := imagery.BuildGallery(req)
	if err != nil {
		logging.WarnWithContext(s.logger, "imagery unavailable", "imagery_list_failed",
			logging.String(logging.FieldArticleID, entry.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "gallery shown as empty"))
		gallery = &imagery.Gallery{Source: article.Source}
	}
	view.Gallery = gallery
	sess.Select(gallery.Clamp(sess.Selection()))
	view.Frame, view.HasFrame = gallery.At(sess.Selection())

	if record, ok := table.Get(entry.ID); ok {
		view.Feedback, view.HasFeedback = record, true
		if visibility, reviewed := record.Visibility(); reviewed {
			view.Visibility = string(visibility)
		}
		view.DraftStart = record.NewStartDate.Text()
		view.DraftEnd = record.NewEndDate.Text()
		view.DraftNote = record.Notes.Text()
	}
	if draftStart, draftEnd, ok := sess.DateDraft(); ok {
		view.DraftStart, view.DraftEnd = draftStart, draftEnd
	}
	if note, ok := sess.NoteDraft(); ok {
		view.DraftNote = note
	}

	if s.journal != nil {
		history, err := s.journal.List(ctx, journal.Filter{ArticleID: entry.ID, Limit: historyLimit})
		if err != nil {
			logging.WarnWithContext(s.logger, "journal history unavailable", "journal_list_failed",
				logging.String(logging.FieldArticleID, entry.ID),
				logging.Error(err))
		}
		view.History = history
	}

	view.Flash = sess.TakeFlash()
	return view, nil
}

func (s *Service) fillText(ctx context.Context, view *ArticleView, entry catalog.Entry) {
	source := "descriptor"
	text := entry.Article.ArticleContent
	if remote, ok := s.text.Fetch(ctx, entry.ID); ok && strings.TrimSpace(remote) != "" {
		source, text = "remote", remote
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	rendered, err := articletext.ToHTML(text)
	if err != nil {
		logging.WarnWithContext(s.logger, "article text render failed", "article_text_render_failed",
			logging.String(logging.FieldArticleID, entry.ID),
			logging.Error(err))
		return
	}
	view.ArticleHTML = rendered
	view.TextSource = source
}

// current resolves the session's article after syncing with the catalog.
func (s *Service) current(sess *Session) (catalog.Entry, error) {
	entries, err := s.catalog.Entries()
	if err != nil {
		return catalog.Entry{}, err
	}
	entry, ok := s.settle(sess, entries)
	if !ok {
		return catalog.Entry{}, ErrEmptyCatalog
	}
	return entry, nil
}

func (s *Service) sync(sess *Session) error {
	entries, err := s.catalog.Entries()
	if err != nil {
		return err
	}
	s.settle(sess, entries)
	return nil
}

// settle fits the session to entries and binds it to the article under its
// index.
func (s *Service) settle(sess *Session, entries []catalog.Entry) (catalog.Entry, bool) {
	sess.Resize(len(entries))
	if len(entries) == 0 {
		return catalog.Entry{}, false
	}
	entry := entries[sess.Index()]
	sess.Track(entry.ID)
	return entry, true
}

func (s *Service) failed(sess *Session, articleID, action string, err error) error {
	logging.ErrorWithContext(s.logger, "feedback write failed", "feedback_write_failed",
		logging.String(logging.FieldArticleID, articleID),
		logging.String(logging.FieldSessionID, sess.ID()),
		logging.String("action", action),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check feedback_dir permissions and the feedback file contents"))
	sess.SetFlash(FlashError, "Could not %s: %v", action, err)
	return fmt.Errorf("%s: %w", action, err)
}
