// Package memory provides an in-memory Store implementation used by the
// handler tests and as a fallback when no database is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/flight-planner-service/internal/store"
)

// Store keeps all records in maps guarded by a single mutex. It is safe
// for concurrent use.
type Store struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	users   map[string]*store.User
	plans   map[string]*store.FlightPlan
	flights map[string]*store.FlightRecord
	prefs   map[string]store.Preferences
}

// New returns an empty in-memory store. A nil clock defaults to real time.
func New(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:   clock,
		users:   make(map[string]*store.User),
		plans:   make(map[string]*store.FlightPlan),
		flights: make(map[string]*store.FlightRecord),
		prefs:   make(map[string]store.Preferences),
	}
}

func (s *Store) CreateUser(_ context.Context, u *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return store.ErrDuplicate
		}
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = s.clock.Now().UTC()

	cp := *u
	s.users[u.ID] = &cp
	s.prefs[u.ID] = store.DefaultPreferences(u.ID)
	return nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UserByID(_ context.Context, id string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	at = at.UTC()
	u.LastLogin = &at
	return nil
}

func (s *Store) SavePlan(_ context.Context, p *store.FlightPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	} else if existing, ok := s.plans[p.ID]; ok && existing.UserID != p.UserID {
		// Updates are scoped to the owning user.
		return store.ErrNotFound
	}
	if p.Status == "" {
		p.Status = store.StatusDraft
	}
	p.UpdatedAt = now

	cp := *p
	s.plans[p.ID] = &cp
	return nil
}

func (s *Store) PlansByUser(_ context.Context, userID string, limit int) ([]store.PlanSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.PlanSummary
	for _, p := range s.plans {
		if p.UserID != userID {
			continue
		}
		out = append(out, store.PlanSummary{
			ID:              p.ID,
			PlanName:        p.PlanName,
			AircraftCode:    p.AircraftCode,
			OriginICAO:      p.OriginICAO,
			DestinationICAO: p.DestinationICAO,
			DistanceNM:      p.DistanceNM,
			FuelRequiredKg:  p.FuelRequiredKg,
			FlightTimeHr:    p.FlightTimeHr,
			Status:          p.Status,
			Approved:        p.Approved,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) PlanByID(_ context.Context, userID, planID string) (*store.FlightPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[planID]
	if !ok || p.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) SetPlanStatus(_ context.Context, userID, planID, status string, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[planID]
	if !ok || p.UserID != userID {
		return store.ErrNotFound
	}
	p.Status = status
	p.Approved = approved
	p.UpdatedAt = s.clock.Now().UTC()
	return nil
}

func (s *Store) DeletePlan(_ context.Context, userID, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[planID]
	if !ok || p.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.plans, planID)
	return nil
}

func (s *Store) LogFlight(_ context.Context, r *store.FlightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.PlanID != "" {
		p, ok := s.plans[r.PlanID]
		if !ok || p.UserID != r.UserID {
			return store.ErrNotFound
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = s.clock.Now().UTC()

	cp := *r
	s.flights[r.ID] = &cp
	return nil
}

func (s *Store) FlightsByUser(_ context.Context, userID string, limit int) ([]store.FlightRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.FlightRecord
	for _, r := range s.flights {
		if r.UserID != userID {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FlightDate.After(out[j].FlightDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UserStats(_ context.Context, userID string) (store.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats store.Stats
	byAircraft := make(map[string]int)
	for _, p := range s.plans {
		if p.UserID != userID {
			continue
		}
		stats.TotalPlans++
		if p.Approved {
			stats.ApprovedPlans++
		}
		stats.TotalDistanceNM += p.DistanceNM
		byAircraft[p.AircraftCode]++
	}
	for _, r := range s.flights {
		if r.UserID == userID {
			stats.TotalFlightsLogged++
		}
	}

	best := 0
	for code, n := range byAircraft {
		if n > best || (n == best && code < stats.MostUsedAircraft) {
			best = n
			stats.MostUsedAircraft = code
		}
	}
	return stats, nil
}

func (s *Store) PreferencesByUser(_ context.Context, userID string) (store.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prefs[userID]
	if !ok {
		return store.Preferences{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) SavePreferences(_ context.Context, p store.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.UserID]; !ok {
		return store.ErrNotFound
	}
	s.prefs[p.UserID] = p
	return nil
}
