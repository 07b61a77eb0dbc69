// Package postgres implements the store interfaces on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/flight-planner-service/internal/store"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint.
const uniqueViolation = "23505"

// Store is a PostgreSQL-backed store.Store.
type Store struct {
	pool   *pgxpool.Pool
	clock  clockwork.Clock
	logger *slog.Logger
}

// New connects to databaseURL and applies the schema. A nil clock defaults
// to real time.
func New(ctx context.Context, databaseURL string, clock clockwork.Clock, logger *slog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := NewWithPool(pool, clock, logger)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool wraps an existing pool without applying the schema.
func NewWithPool(pool *pgxpool.Pool, clock clockwork.Clock, logger *slog.Logger) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{pool: pool, clock: clock, logger: logger}
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       UUID PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL DEFAULT '',
		pilot_license TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL,
		last_login    TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS flight_plans (
		plan_id          UUID PRIMARY KEY,
		user_id          UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		plan_name        TEXT NOT NULL,
		aircraft_code    TEXT NOT NULL,
		origin_icao      TEXT NOT NULL,
		destination_icao TEXT NOT NULL,
		distance_nm      DOUBLE PRECISION NOT NULL DEFAULT 0,
		altitude_ft      INTEGER NOT NULL DEFAULT 35000,
		headwind_kt      DOUBLE PRECISION NOT NULL DEFAULT 0,
		fuel_required_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
		flight_time_hr   DOUBLE PRECISION NOT NULL DEFAULT 0,
		route_data       JSONB,
		weather_data     JSONB,
		airspace_check   JSONB,
		etops_check      JSONB,
		status           TEXT NOT NULL DEFAULT 'draft',
		approved         BOOLEAN NOT NULL DEFAULT FALSE,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_flight_plans_user ON flight_plans (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS flight_history (
		flight_id             UUID PRIMARY KEY,
		user_id               UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		plan_id               UUID REFERENCES flight_plans(plan_id) ON DELETE SET NULL,
		flight_date           DATE NOT NULL,
		actual_fuel_used_kg   DOUBLE PRECISION NOT NULL DEFAULT 0,
		actual_flight_time_hr DOUBLE PRECISION NOT NULL DEFAULT 0,
		notes                 TEXT NOT NULL DEFAULT '',
		created_at            TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id              UUID PRIMARY KEY REFERENCES users(user_id) ON DELETE CASCADE,
		preferred_units      TEXT NOT NULL DEFAULT 'metric',
		default_aircraft     TEXT NOT NULL DEFAULT '',
		default_altitude_ft  INTEGER NOT NULL DEFAULT 35000,
		enable_notifications BOOLEAN NOT NULL DEFAULT TRUE,
		theme                TEXT NOT NULL DEFAULT 'dark'
	)`,
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	if s.logger != nil {
		s.logger.Debug("database schema applied")
	}
	return nil
}

func isUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) CreateUser(ctx context.Context, u *store.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = s.clock.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (user_id, username, email, password_hash, full_name, pilot_license, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FullName, u.PilotLicense, u.CreatedAt)
	if err != nil {
		if isUnique(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	prefs := store.DefaultPreferences(u.ID)
	_, err = tx.Exec(ctx, `
		INSERT INTO user_preferences (user_id, preferred_units, default_aircraft, default_altitude_ft, enable_notifications, theme)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		prefs.UserID, prefs.PreferredUnits, prefs.DefaultAircraft, prefs.DefaultAltitudeFt, prefs.EnableNotifications, prefs.Theme)
	if err != nil {
		return fmt.Errorf("inserting default preferences: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing user: %w", err)
	}
	return nil
}

const userColumns = `user_id, username, email, password_hash, full_name, pilot_license, created_at, last_login`

func scanUser(row pgx.Row) (*store.User, error) {
	var u store.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.PilotLicense, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*store.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username)
	return scanUser(row)
}

func (s *Store) UserByID(ctx context.Context, id string) (*store.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	return scanUser(row)
}

func (s *Store) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET last_login = $2 WHERE user_id = $1`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SavePlan(ctx context.Context, p *store.FlightPlan) error {
	now := s.clock.Now().UTC()
	if p.Status == "" {
		p.Status = store.StatusDraft
	}
	p.UpdatedAt = now

	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
		_, err := s.pool.Exec(ctx, `
			INSERT INTO flight_plans (
				plan_id, user_id, plan_name, aircraft_code, origin_icao, destination_icao,
				distance_nm, altitude_ft, headwind_kt, fuel_required_kg, flight_time_hr,
				route_data, weather_data, airspace_check, etops_check,
				status, approved, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
			p.ID, p.UserID, p.PlanName, p.AircraftCode, p.OriginICAO, p.DestinationICAO,
			p.DistanceNM, p.AltitudeFt, p.HeadwindKt, p.FuelRequiredKg, p.FlightTimeHr,
			p.RouteData, p.WeatherData, p.AirspaceCheck, p.ETOPSCheck,
			p.Status, p.Approved, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("inserting flight plan: %w", err)
		}
		return nil
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE flight_plans SET
			plan_name = $3, aircraft_code = $4, origin_icao = $5, destination_icao = $6,
			distance_nm = $7, altitude_ft = $8, headwind_kt = $9, fuel_required_kg = $10,
			flight_time_hr = $11, route_data = $12, weather_data = $13, airspace_check = $14,
			etops_check = $15, status = $16, approved = $17, updated_at = $18
		WHERE plan_id = $1 AND user_id = $2`,
		p.ID, p.UserID, p.PlanName, p.AircraftCode, p.OriginICAO, p.DestinationICAO,
		p.DistanceNM, p.AltitudeFt, p.HeadwindKt, p.FuelRequiredKg, p.FlightTimeHr,
		p.RouteData, p.WeatherData, p.AirspaceCheck, p.ETOPSCheck,
		p.Status, p.Approved, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating flight plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) PlansByUser(ctx context.Context, userID string, limit int) ([]store.PlanSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT plan_id, plan_name, aircraft_code, origin_icao, destination_icao,
		       distance_nm, fuel_required_kg, flight_time_hr, status, approved,
		       created_at, updated_at
		FROM flight_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing flight plans: %w", err)
	}
	defer rows.Close()

	var out []store.PlanSummary
	for rows.Next() {
		var p store.PlanSummary
		if err := rows.Scan(
			&p.ID, &p.PlanName, &p.AircraftCode, &p.OriginICAO, &p.DestinationICAO,
			&p.DistanceNM, &p.FuelRequiredKg, &p.FlightTimeHr, &p.Status, &p.Approved,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning flight plan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating flight plans: %w", err)
	}
	return out, nil
}

func (s *Store) PlanByID(ctx context.Context, userID, planID string) (*store.FlightPlan, error) {
	var p store.FlightPlan
	err := s.pool.QueryRow(ctx, `
		SELECT plan_id, user_id, plan_name, aircraft_code, origin_icao, destination_icao,
		       distance_nm, altitude_ft, headwind_kt, fuel_required_kg, flight_time_hr,
		       route_data, weather_data, airspace_check, etops_check,
		       status, approved, created_at, updated_at
		FROM flight_plans
		WHERE plan_id = $1 AND user_id = $2`, planID, userID).Scan(
		&p.ID, &p.UserID, &p.PlanName, &p.AircraftCode, &p.OriginICAO, &p.DestinationICAO,
		&p.DistanceNM, &p.AltitudeFt, &p.HeadwindKt, &p.FuelRequiredKg, &p.FlightTimeHr,
		&p.RouteData, &p.WeatherData, &p.AirspaceCheck, &p.ETOPSCheck,
		&p.Status, &p.Approved, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("fetching flight plan: %w", err)
	}
	return &p, nil
}

func (s *Store) SetPlanStatus(ctx context.Context, userID, planID, status string, approved bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE flight_plans SET status = $3, approved = $4, updated_at = $5
		WHERE plan_id = $1 AND user_id = $2`,
		planID, userID, status, approved, s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating plan status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeletePlan(ctx context.Context, userID, planID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM flight_plans WHERE plan_id = $1 AND user_id = $2`, planID, userID)
	if err != nil {
		return fmt.Errorf("deleting flight plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) LogFlight(ctx context.Context, r *store.FlightRecord) error {
	if r.PlanID != "" {
		if _, err := s.PlanByID(ctx, r.UserID, r.PlanID); err != nil {
			return err
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = s.clock.Now().UTC()

	var planID any
	if r.PlanID != "" {
		planID = r.PlanID
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO flight_history (
			flight_id, user_id, plan_id, flight_date,
			actual_fuel_used_kg, actual_flight_time_hr, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.UserID, planID, r.FlightDate,
		r.ActualFuelUsedKg, r.ActualFlightTimeH, r.Notes, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting flight record: %w", err)
	}
	return nil
}

func (s *Store) FlightsByUser(ctx context.Context, userID string, limit int) ([]store.FlightRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT flight_id, user_id, COALESCE(plan_id::text, ''), flight_date,
		       actual_fuel_used_kg, actual_flight_time_hr, notes, created_at
		FROM flight_history
		WHERE user_id = $1
		ORDER BY flight_date DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing flights: %w", err)
	}
	defer rows.Close()

	var out []store.FlightRecord
	for rows.Next() {
		var r store.FlightRecord
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.PlanID, &r.FlightDate,
			&r.ActualFuelUsedKg, &r.ActualFlightTimeH, &r.Notes, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning flight record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating flights: %w", err)
	}
	return out, nil
}

func (s *Store) UserStats(ctx context.Context, userID string) (store.Stats, error) {
	var stats store.Stats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE approved),
		       COALESCE(SUM(distance_nm), 0)
		FROM flight_plans
		WHERE user_id = $1`, userID).Scan(
		&stats.TotalPlans, &stats.ApprovedPlans, &stats.TotalDistanceNM)
	if err != nil {
		return store.Stats{}, fmt.Errorf("aggregating plans: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM flight_history WHERE user_id = $1`, userID).Scan(&stats.TotalFlightsLogged)
	if err != nil {
		return store.Stats{}, fmt.Errorf("counting flights: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT aircraft_code
		FROM flight_plans
		WHERE user_id = $1
		GROUP BY aircraft_code
		ORDER BY COUNT(*) DESC, aircraft_code
		LIMIT 1`, userID).Scan(&stats.MostUsedAircraft)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return store.Stats{}, fmt.Errorf("finding most used aircraft: %w", err)
	}
	return stats, nil
}

func (s *Store) PreferencesByUser(ctx context.Context, userID string) (store.Preferences, error) {
	var p store.Preferences
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, preferred_units, default_aircraft, default_altitude_ft, enable_notifications, theme
		FROM user_preferences
		WHERE user_id = $1`, userID).Scan(
		&p.UserID, &p.PreferredUnits, &p.DefaultAircraft, &p.DefaultAltitudeFt, &p.EnableNotifications, &p.Theme)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Preferences{}, store.ErrNotFound
		}
		return store.Preferences{}, fmt.Errorf("fetching preferences: %w", err)
	}
	return p, nil
}

func (s *Store) SavePreferences(ctx context.Context, p store.Preferences) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE user_preferences SET
			preferred_units = $2, default_aircraft = $3, default_altitude_ft = $4,
			enable_notifications = $5, theme = $6
		WHERE user_id = $1`,
		p.UserID, p.PreferredUnits, p.DefaultAircraft, p.DefaultAltitudeFt, p.EnableNotifications, p.Theme)
	if err != nil {
		return fmt.Errorf("updating preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
