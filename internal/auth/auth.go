// Package auth handles account registration, login, and bearer-token
// sessions. Passwords are stored as bcrypt hashes; session tokens are
// random UUIDs held in memory with a sliding expiry.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/couchcryptid/flight-planner-service/internal/store"
)

var (
	// ErrInvalidCredentials covers bad username/password pairs. Login
	// never reveals which half was wrong.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrUnauthorized covers missing, unknown, or expired session tokens.
	ErrUnauthorized = errors.New("auth: unauthorized")
)

// ValidationError describes a rejected registration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("auth: invalid %s: %s", e.Field, e.Reason)
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	FullName     string
	PilotLicense string
}

type session struct {
	userID    string
	expiresAt time.Time
}

// Service issues and verifies sessions against a UserStore.
type Service struct {
	users  store.UserStore
	ttl    time.Duration
	clock  clockwork.Clock
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]session
}

// NewService builds an auth service. A nil clock defaults to real time.
func NewService(users store.UserStore, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		users:    users,
		ttl:      ttl,
		clock:    clock,
		logger:   logger,
		sessions: make(map[string]session),
	}
}

func validate(in RegisterInput) error {
	if len(strings.TrimSpace(in.Username)) < 3 {
		return &ValidationError{Field: "username", Reason: "must be at least 3 characters"}
	}
	if !strings.Contains(in.Email, "@") {
		return &ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	if len(in.Password) < 8 {
		return &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	return nil
}

// Register creates an account with default preferences. Returns
// store.ErrDuplicate if the username or email is taken.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*store.User, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &store.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		PilotLicense: strings.TrimSpace(in.PilotLicense),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "username", u.Username)
	return u, nil
}

// Login verifies the password and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *store.User, error) {
	u, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := s.clock.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, u.ID, now); err != nil {
		return "", nil, err
	}
	u.LastLogin = &now

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session{userID: u.ID, expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()

	s.logger.Info("user logged in", "username", u.Username)
	return token, u, nil
}

// Authenticate resolves a session token to its user. Valid use extends the
// session by the configured TTL.
func (s *Service) Authenticate(ctx context.Context, token string) (*store.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	now := s.clock.Now().UTC()
	s.mu.Lock()
	sess, ok := s.sessions[token]
	if ok && now.After(sess.expiresAt) {
		delete(s.sessions, token)
		ok = false
	}
	if ok {
		sess.expiresAt = now.Add(s.ttl)
		s.sessions[token] = sess
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrUnauthorized
	}

	u, err := s.users.UserByID(ctx, sess.userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// Logout discards a session. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep drops expired sessions. Called periodically by the server.
func (s *Service) Sweep() int {
	now := s.clock.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// ActiveSessions reports the number of live sessions.
func (s *Service) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
