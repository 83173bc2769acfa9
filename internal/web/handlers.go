package web

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"skyreview/internal/catalog"
	"skyreview/internal/feedback"
	"skyreview/internal/imagery"
	"skyreview/internal/logging"
	"skyreview/internal/review"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if raw := strings.TrimSpace(r.URL.Query().Get("img")); raw != "" {
		if index, err := strconv.Atoi(raw); err == nil {
			s.session.Select(index)
		}
	}

	data := pageData{Batch: s.batch, Visibilities: feedback.Visibilities}
	status := http.StatusOK
	view, err := s.service.View(r.Context(), s.session)
	switch {
	case err == nil:
		data.View = view
		data.Flash = view.Flash
	case errors.Is(err, review.ErrEmptyCatalog):
		data.Flash = s.session.TakeFlash()
		data.Problem = "No eligible articles found in batch " + s.batch + "."
	default:
		logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "review page unavailable", "page_render_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the reported descriptor and use Reload"),
		)
		data.Flash = s.session.TakeFlash()
		data.Problem = err.Error()
		status = http.StatusInternalServerError
	}
	if err := s.page.render(w, status, data); err != nil {
		s.logger.Error("page write failed", logging.Error(err))
	}
}

type actionFunc func(ctx context.Context, r *http.Request) error

// action wraps a form handler: it accepts POST only, runs fn under the
// session lock and redirects back to the page.
func (s *Server) action(fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		err := fn(r.Context(), r)
		if err != nil {
			var descErr *catalog.DescriptorError
			if errors.As(err, &descErr) {
				s.session.SetFlash(review.FlashError, "Catalog could not be loaded: %v", err)
			}
			logging.WithContext(r.Context(), s.logger).Debug("action rejected",
				logging.String("path", r.URL.Path),
				logging.Error(err),
			)
		}
		s.mu.Unlock()

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) next(context.Context, *http.Request) error {
	return s.service.Next(s.session)
}

func (s *Server) previous(context.Context, *http.Request) error {
	return s.service.Previous(s.session)
}

func (s *Server) jump(_ context.Context, r *http.Request) error {
	raw := strings.TrimSpace(r.PostFormValue("index"))
	index, err := strconv.Atoi(raw)
	if err != nil {
		s.session.SetFlash(review.FlashError, "Article index must be a whole number, got %q.", raw)
		return err
	}
	return s.service.JumpTo(s.session, index)
}

func (s *Server) reload(context.Context, *http.Request) error {
	return s.service.Reload(s.session)
}

func (s *Server) setVisibility(ctx context.Context, r *http.Request) error {
	return s.service.SetVisibility(ctx, s.session, r.PostFormValue("visible"))
}

func (s *Server) undoVisibility(ctx context.Context, _ *http.Request) error {
	return s.service.UndoVisibility(ctx, s.session)
}

func (s *Server) saveDates(ctx context.Context, r *http.Request) error {
	return s.service.SaveDates(ctx, s.session, r.PostFormValue("start"), r.PostFormValue("end"))
}

func (s *Server) clearStart(ctx context.Context, _ *http.Request) error {
	return s.service.ClearStartDate(ctx, s.session)
}

func (s *Server) clearEnd(ctx context.Context, _ *http.Request) error {
	return s.service.ClearEndDate(ctx, s.session)
}

func (s *Server) saveNote(ctx context.Context, r *http.Request) error {
	return s.service.SaveNote(ctx, s.session, r.PostFormValue("notes"))
}

// handleImagery serves one image from an eligible article's imagery
// directory. Only plain image file names are accepted.
func (s *Server) handleImagery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	articleID := r.PathValue("article")
	name := r.PathValue("file")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || !imagery.IsImage(name) {
		http.NotFound(w, r)
		return
	}

	entries, err := s.service.Articles()
	if err != nil {
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}
	for _, entry := range entries {
		if entry.ID == articleID {
			http.ServeFile(w, r, filepath.Join(entry.ImageryDir(), name))
			return
		}
	}
	http.NotFound(w, r)
}
