package web

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"skyreview/internal/logging"
)

// requireToken guards the JSON API with the configured bearer token. With no
// token configured the API is open, matching a server bound to localhost.
// The review page itself is never token protected.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	if s.token == "" {
		return next
	}
	want := []byte(s.token)
	return func(w http.ResponseWriter, r *http.Request) {
		scheme, presented, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if ok && strings.EqualFold(scheme, "Bearer") &&
			subtle.ConstantTimeCompare([]byte(strings.TrimSpace(presented)), want) == 1 {
			next(w, r)
			return
		}
		logging.WarnWithContext(logging.WithContext(r.Context(), s.logger), "api request rejected", "api_unauthorized",
			logging.String("path", r.URL.Path),
			logging.String(logging.FieldErrorHint, "send Authorization: Bearer <server.api_token>"),
			logging.String(logging.FieldImpact, "request not served"),
		)
		w.Header().Set("WWW-Authenticate", `Bearer realm="skyreview"`)
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
	}
}
