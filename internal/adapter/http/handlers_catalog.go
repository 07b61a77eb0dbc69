package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/couchcryptid/flight-planner-service/internal/aircraft"
	"github.com/couchcryptid/flight-planner-service/internal/airport"
	"github.com/couchcryptid/flight-planner-service/internal/route"
	"github.com/couchcryptid/flight-planner-service/internal/weather"
)

func (s *Server) handleListAircraft(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"aircraft": aircraft.All()})
}

func (s *Server) handleGetAircraft(w http.ResponseWriter, r *http.Request) {
	perf, ok := aircraft.Lookup(r.PathValue("code"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown aircraft type")
		return
	}
	writeJSON(w, http.StatusOK, perf)
}

func (s *Server) handleListAirports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"airports": airport.All()})
}

func (s *Server) handleGetAirport(w http.ResponseWriter, r *http.Request) {
	apt, ok := airport.Lookup(r.PathValue("code"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown airport code")
		return
	}
	writeJSON(w, http.StatusOK, apt)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	origin, dest := q.Get("origin"), q.Get("destination")
	if origin == "" || dest == "" {
		writeError(w, http.StatusBadRequest, "origin and destination are required")
		return
	}

	waypoints := 5
	if v := q.Get("waypoints"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 20 {
			writeError(w, http.StatusBadRequest, "waypoints must be between 0 and 20")
			return
		}
		waypoints = n
	}

	rt, err := route.Build(origin, dest, waypoints)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleMetar(w http.ResponseWriter, r *http.Request) {
	if s.deps.Weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather source not configured")
		return
	}
	m, err := s.deps.Weather.Metar(r.Context(), r.PathValue("station"))
	if err != nil {
		s.weatherError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleTaf(w http.ResponseWriter, r *http.Request) {
	if s.deps.Weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather source not configured")
		return
	}
	t, err := s.deps.Weather.Taf(r.Context(), r.PathValue("station"))
	if err != nil {
		s.weatherError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleRouteWeather(w http.ResponseWriter, r *http.Request) {
	if s.deps.Summarizer == nil {
		writeError(w, http.StatusServiceUnavailable, "weather source not configured")
		return
	}
	q := r.URL.Query()
	origin, dest := q.Get("origin"), q.Get("destination")
	if origin == "" || dest == "" {
		writeError(w, http.StatusBadRequest, "origin and destination are required")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Summarizer.Summarize(r.Context(), origin, dest))
}

func (s *Server) weatherError(w http.ResponseWriter, err error) {
	if errors.Is(err, weather.ErrUnavailable) {
		writeError(w, http.StatusNotFound, "no weather data for station")
		return
	}
	s.logger.Warn("weather fetch failed", "error", err)
	writeError(w, http.StatusBadGateway, "weather provider error")
}
