package web

import (
	"net/http"
	"strconv"
	"strings"

	"skyreview/internal/api"
	"skyreview/internal/journal"
)

const defaultHistoryLimit = 50

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	store := s.service.Store()
	table, err := store.Load(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromTable(store.Path(), table))
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	progress, err := s.service.Progress(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromProgress(progress))
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	entries, err := s.service.Articles()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	table, err := s.service.Store().Load(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.mu.Lock()
	current := s.session.Index()
	s.mu.Unlock()
	if len(entries) == 0 {
		current = -1
	}
	s.writeJSON(w, http.StatusOK, api.FromEntries(s.batch, entries, table, current))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.journal == nil {
		s.writeJSON(w, http.StatusOK, api.FromEvents(nil))
		return
	}
	filter := journal.Filter{
		ArticleID: strings.TrimSpace(r.URL.Query().Get("article")),
		Limit:     defaultHistoryLimit,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}
	events, err := s.journal.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromEvents(events))
}
