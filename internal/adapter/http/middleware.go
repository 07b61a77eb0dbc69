package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/flight-planner-service/internal/auth"
	"github.com/couchcryptid/flight-planner-service/internal/store"
)

type contextKey struct{ name string }

var userKey = contextKey{"user"}

// currentUser returns the authenticated user placed on the context by
// requireAuth.
func currentUser(r *http.Request) *store.User {
	u, _ := r.Context().Value(userKey).(*store.User)
	return u
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// requireAuth resolves the bearer token to a user before calling next.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := s.deps.Auth.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "missing or expired session token")
				return
			}
			s.logger.Error("authentication failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	}
}

// statusRecorder captures the response code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// instrument records request counts and latency per route pattern. The
// pattern comes from the mux so path parameters do not explode label
// cardinality.
func (s *Server) instrument(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Metrics == nil {
			mux.ServeHTTP(w, r)
			return
		}

		started := s.deps.Clock.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(rec, r)

		_, route := mux.Handler(r)
		if route == "" {
			route = "unmatched"
		}
		s.deps.Metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		s.deps.Metrics.HTTPDuration.WithLabelValues(route).Observe(s.deps.Clock.Since(started).Seconds())
	})
}
