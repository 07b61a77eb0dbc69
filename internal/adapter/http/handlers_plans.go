package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/couchcryptid/flight-planner-service/internal/event"
	"github.com/couchcryptid/flight-planner-service/internal/planner"
	"github.com/couchcryptid/flight-planner-service/internal/store"
)

type createPlanResponse struct {
	PlanID string        `json:"plan_id"`
	Plan   *planner.Plan `json:"plan"`
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	var req planner.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WaypointCount < 0 || req.WaypointCount > 20 {
		writeError(w, http.StatusBadRequest, "waypoint_count must be between 0 and 20")
		return
	}

	plan, err := s.deps.Planner.Plan(r.Context(), req)
	if err != nil {
		if errors.Is(err, planner.ErrUnknownAircraft) {
			writeError(w, http.StatusBadRequest, "unknown aircraft type")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fp, err := s.persistPlan(r, u.ID, plan)
	if err != nil {
		s.logger.Error("saving flight plan failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save flight plan")
		return
	}

	s.publish(r, event.PlanEvent{
		Type:            event.TypePlanCreated,
		PlanID:          fp.ID,
		UserID:          u.ID,
		AircraftCode:    fp.AircraftCode,
		OriginICAO:      fp.OriginICAO,
		DestinationICAO: fp.DestinationICAO,
		DistanceNM:      fp.DistanceNM,
		Status:          fp.Status,
		Approved:        fp.Approved,
	})

	writeJSON(w, http.StatusCreated, createPlanResponse{PlanID: fp.ID, Plan: plan})
}

// persistPlan stores the computed plan document with its check results as
// JSON blobs.
func (s *Server) persistPlan(r *http.Request, userID string, plan *planner.Plan) (*store.FlightPlan, error) {
	routeData, err := json.Marshal(plan.Route)
	if err != nil {
		return nil, err
	}
	airspaceData, err := json.Marshal(plan.Airspace)
	if err != nil {
		return nil, err
	}
	etopsData, err := json.Marshal(plan.ETOPS)
	if err != nil {
		return nil, err
	}
	var weatherData json.RawMessage
	if plan.Weather != nil {
		if weatherData, err = json.Marshal(plan.Weather); err != nil {
			return nil, err
		}
	}

	fp := &store.FlightPlan{
		UserID:          userID,
		PlanName:        plan.PlanName,
		AircraftCode:    plan.Aircraft.Code,
		OriginICAO:      plan.Route.Origin.ICAO,
		DestinationICAO: plan.Route.Destination.ICAO,
		DistanceNM:      plan.Route.TotalDistanceNM,
		AltitudeFt:      plan.AltitudeFt,
		HeadwindKt:      plan.HeadwindKt,
		FuelRequiredKg:  plan.Fuel.TotalFuelKg,
		FlightTimeHr:    plan.Fuel.FlightTimeHours,
		RouteData:       routeData,
		WeatherData:     weatherData,
		AirspaceCheck:   airspaceData,
		ETOPSCheck:      etopsData,
		Status:          plan.Status,
		Approved:        plan.Approved,
	}
	if err := s.deps.Store.SavePlan(r.Context(), fp); err != nil {
		return nil, err
	}
	return fp, nil
}

// publish delivers a plan event best-effort; a broker outage never fails
// the request.
func (s *Server) publish(r *http.Request, e event.PlanEvent) {
	e.OccurredAt = s.deps.Clock.Now().UTC()
	if err := s.deps.Publisher.Publish(r.Context(), e); err != nil {
		s.logger.Warn("plan event publish failed", "type", e.Type, "error", err)
	}
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.deps.Store.PlansByUser(r.Context(), currentUser(r).ID, queryLimit(r))
	if err != nil {
		s.logger.Error("listing plans failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if plans == nil {
		plans = []store.PlanSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	fp, err := s.deps.Store.PlanByID(r.Context(), currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		s.planError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fp)
}

func (s *Server) handleApprovePlan(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	planID := r.PathValue("id")

	if err := s.deps.Store.SetPlanStatus(r.Context(), u.ID, planID, store.StatusApproved, true); err != nil {
		s.planError(w, err)
		return
	}

	s.publish(r, event.PlanEvent{
		Type:     event.TypePlanApproved,
		PlanID:   planID,
		UserID:   u.ID,
		Status:   store.StatusApproved,
		Approved: true,
	})

	fp, err := s.deps.Store.PlanByID(r.Context(), u.ID, planID)
	if err != nil {
		s.planError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fp)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	planID := r.PathValue("id")

	if err := s.deps.Store.DeletePlan(r.Context(), u.ID, planID); err != nil {
		s.planError(w, err)
		return
	}

	s.publish(r, event.PlanEvent{
		Type:   event.TypePlanDeleted,
		PlanID: planID,
		UserID: u.ID,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBriefing(w http.ResponseWriter, r *http.Request) {
	if s.deps.Briefer == nil {
		writeError(w, http.StatusServiceUnavailable, "briefing generation not configured")
		return
	}

	fp, err := s.deps.Store.PlanByID(r.Context(), currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		s.planError(w, err)
		return
	}

	text, err := s.deps.Briefer.Briefing(r.Context(), fp)
	if err != nil {
		if s.deps.Metrics != nil {
			s.deps.Metrics.BriefingRequests.WithLabelValues("error").Inc()
		}
		s.logger.Error("briefing generation failed", "plan_id", fp.ID, "error", err)
		writeError(w, http.StatusBadGateway, "briefing generation failed")
		return
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.BriefingRequests.WithLabelValues("success").Inc()
	}

	writeJSON(w, http.StatusOK, map[string]string{"plan_id": fp.ID, "briefing": text})
}

func (s *Server) planError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "flight plan not found")
		return
	}
	s.logger.Error("plan operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

type logFlightRequest struct {
	PlanID            string  `json:"plan_id"`
	FlightDate        string  `json:"flight_date"`
	ActualFuelUsedKg  float64 `json:"actual_fuel_used_kg"`
	ActualFlightTimeH float64 `json:"actual_flight_time_hr"`
	Notes             string  `json:"notes"`
}

func (s *Server) handleLogFlight(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	var req logFlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flightDate := s.deps.Clock.Now().UTC()
	if req.FlightDate != "" {
		d, err := parseFlightDate(req.FlightDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "flight_date must be YYYY-MM-DD")
			return
		}
		flightDate = d
	}

	rec := &store.FlightRecord{
		UserID:            u.ID,
		PlanID:            req.PlanID,
		FlightDate:        flightDate,
		ActualFuelUsedKg:  req.ActualFuelUsedKg,
		ActualFlightTimeH: req.ActualFlightTimeH,
		Notes:             req.Notes,
	}
	if err := s.deps.Store.LogFlight(r.Context(), rec); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "flight plan not found")
			return
		}
		s.logger.Error("logging flight failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.publish(r, event.PlanEvent{
		Type:   event.TypeFlightLogged,
		PlanID: rec.PlanID,
		UserID: u.ID,
	})

	writeJSON(w, http.StatusCreated, rec)
}

func parseFlightDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (s *Server) handleListFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := s.deps.Store.FlightsByUser(r.Context(), currentUser(r).ID, queryLimit(r))
	if err != nil {
		s.logger.Error("listing flights failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if flights == nil {
		flights = []store.FlightRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"flights": flights})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Store.UserStats(r.Context(), currentUser(r).ID)
	if err != nil {
		s.logger.Error("fetching stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.deps.Store.PreferencesByUser(r.Context(), currentUser(r).ID)
	if err != nil {
		s.logger.Error("fetching preferences failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

type preferencesRequest struct {
	PreferredUnits      string `json:"preferred_units"`
	DefaultAircraft     string `json:"default_aircraft"`
	DefaultAltitudeFt   int    `json:"default_altitude_ft"`
	EnableNotifications bool   `json:"enable_notifications"`
	Theme               string `json:"theme"`
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PreferredUnits != "metric" && req.PreferredUnits != "imperial" {
		writeError(w, http.StatusBadRequest, "preferred_units must be metric or imperial")
		return
	}

	prefs := store.Preferences{
		UserID:              currentUser(r).ID,
		PreferredUnits:      req.PreferredUnits,
		DefaultAircraft:     req.DefaultAircraft,
		DefaultAltitudeFt:   req.DefaultAltitudeFt,
		EnableNotifications: req.EnableNotifications,
		Theme:               req.Theme,
	}
	if err := s.deps.Store.SavePreferences(r.Context(), prefs); err != nil {
		s.logger.Error("saving preferences failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
