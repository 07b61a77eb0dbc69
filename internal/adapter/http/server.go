// Package http exposes the planning service's REST API along with health,
// readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/flight-planner-service/internal/auth"
	"github.com/couchcryptid/flight-planner-service/internal/event"
	"github.com/couchcryptid/flight-planner-service/internal/observability"
	"github.com/couchcryptid/flight-planner-service/internal/planner"
	"github.com/couchcryptid/flight-planner-service/internal/store"
	"github.com/couchcryptid/flight-planner-service/internal/weather"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Briefer generates a natural-language dispatch briefing for a plan.
type Briefer interface {
	Briefing(ctx context.Context, plan any) (string, error)
}

// Deps are the collaborators the API serves. Weather, Summarizer,
// Briefer, and Publisher may be nil; the corresponding endpoints degrade
// or report the feature as unavailable.
type Deps struct {
	Auth       *auth.Service
	Store      store.Store
	Planner    *planner.Planner
	Weather    weather.Source
	Summarizer *weather.Summarizer
	Briefer    Briefer
	Publisher  event.Publisher
	Ready      ReadinessChecker
	Metrics    *observability.Metrics
	Clock      clockwork.Clock
	Logger     *slog.Logger
}

// Server exposes the REST API.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all API routes registered.
func NewServer(addr string, deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Publisher == nil {
		deps.Publisher = event.Discard{}
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      nil, // set below once middleware is wired
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: deps.Logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("GET /api/v1/auth/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /api/v1/aircraft", s.handleListAircraft)
	mux.HandleFunc("GET /api/v1/aircraft/{code}", s.handleGetAircraft)
	mux.HandleFunc("GET /api/v1/airports", s.handleListAirports)
	mux.HandleFunc("GET /api/v1/airports/{code}", s.handleGetAirport)
	mux.HandleFunc("GET /api/v1/route", s.handleRoute)

	mux.HandleFunc("GET /api/v1/weather/{station}/metar", s.handleMetar)
	mux.HandleFunc("GET /api/v1/weather/{station}/taf", s.handleTaf)
	mux.HandleFunc("GET /api/v1/weather/route", s.handleRouteWeather)

	mux.HandleFunc("POST /api/v1/plans", s.requireAuth(s.handleCreatePlan))
	mux.HandleFunc("GET /api/v1/plans", s.requireAuth(s.handleListPlans))
	mux.HandleFunc("GET /api/v1/plans/{id}", s.requireAuth(s.handleGetPlan))
	mux.HandleFunc("POST /api/v1/plans/{id}/approve", s.requireAuth(s.handleApprovePlan))
	mux.HandleFunc("DELETE /api/v1/plans/{id}", s.requireAuth(s.handleDeletePlan))
	mux.HandleFunc("POST /api/v1/plans/{id}/briefing", s.requireAuth(s.handleBriefing))

	mux.HandleFunc("POST /api/v1/flights", s.requireAuth(s.handleLogFlight))
	mux.HandleFunc("GET /api/v1/flights", s.requireAuth(s.handleListFlights))
	mux.HandleFunc("GET /api/v1/stats", s.requireAuth(s.handleStats))
	mux.HandleFunc("GET /api/v1/preferences", s.requireAuth(s.handleGetPreferences))
	mux.HandleFunc("PUT /api/v1/preferences", s.requireAuth(s.handlePutPreferences))

	s.httpServer.Handler = s.instrument(mux)
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// queryLimit parses ?limit= with a default of 50.
func queryLimit(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 50
}
