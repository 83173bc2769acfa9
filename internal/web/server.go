package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"skyreview/internal/journal"
	"skyreview/internal/logging"
	"skyreview/internal/review"
)

// Options configures a Server.
type Options struct {
	Bind     string
	APIToken string
	Batch    string
	Logger   *slog.Logger
	// Journal backs /api/history; nil serves an empty history.
	Journal *journal.Store
}

// Server is the review web server for one session.
type Server struct {
	bind    string
	token   string
	batch   string
	logger  *slog.Logger
	service *review.Service
	journal *journal.Store

	// mu serializes access to session.
	mu      sync.Mutex
	session *review.Session

	page     *pageRenderer
	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New builds a server over svc and sess.
func New(svc *review.Service, sess *review.Session, opts Options) (*Server, error) {
	if svc == nil || sess == nil {
		return nil, errors.New("web server: service and session are required")
	}
	page, err := newPageRenderer()
	if err != nil {
		return nil, err
	}
	srv := &Server{
		bind:    strings.TrimSpace(opts.Bind),
		token:   strings.TrimSpace(opts.APIToken),
		batch:   opts.Batch,
		logger:  logging.NewComponentLogger(opts.Logger, "web"),
		service: svc,
		journal: opts.Journal,
		session: sess,
		page:    page,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleIndex)
	mux.HandleFunc("/nav/next", srv.action(srv.next))
	mux.HandleFunc("/nav/prev", srv.action(srv.previous))
	mux.HandleFunc("/nav/jump", srv.action(srv.jump))
	mux.HandleFunc("/reload", srv.action(srv.reload))
	mux.HandleFunc("/feedback/visibility", srv.action(srv.setVisibility))
	mux.HandleFunc("/feedback/undo", srv.action(srv.undoVisibility))
	mux.HandleFunc("/feedback/dates", srv.action(srv.saveDates))
	mux.HandleFunc("/feedback/clear-start", srv.action(srv.clearStart))
	mux.HandleFunc("/feedback/clear-end", srv.action(srv.clearEnd))
	mux.HandleFunc("/feedback/note", srv.action(srv.saveNote))
	mux.HandleFunc("/imagery/{article}/{file}", srv.handleImagery)
	mux.HandleFunc("/api/feedback", srv.requireToken(srv.handleFeedback))
	mux.HandleFunc("/api/progress", srv.requireToken(srv.handleProgress))
	mux.HandleFunc("/api/articles", srv.requireToken(srv.handleArticles))
	mux.HandleFunc("/api/history", srv.requireToken(srv.handleHistory))

	srv.handler = srv.withRequestID(mux)
	srv.server = &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("web listen: %w", err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve listens if needed and serves until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()
	s.logger.Info("review server listening",
		slog.String("address", s.Addr()),
		slog.String(logging.FieldBatch, s.batch),
		slog.String(logging.FieldSessionID, s.session.ID()),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web shutdown: %w", err)
	}
	s.logger.Info("review server stopped")
	return nil
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.WithRequestID(r.Context(), requestID)
		ctx = logging.WithSessionID(ctx, s.session.ID())
		r = r.WithContext(ctx)
		logging.WithContext(ctx, s.logger).Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
