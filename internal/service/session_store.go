package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"workpulse/internal/access"
	"workpulse/internal/events"
	"workpulse/internal/ids"
	"workpulse/internal/metrics"
	"workpulse/internal/models"
	"workpulse/internal/repository"
	"workpulse/internal/security"
)

// SessionOptions are shared by every SessionStore of a process.
type SessionOptions struct {
	Credentials *repository.CredentialRepository
	Verifier    security.PasswordVerifier
	Events      events.Publisher
	Logger      zerolog.Logger

	// PlatformOwnerEmail identifies the account routed to the owner area.
	PlatformOwnerEmail string

	// AllowRoleSwitch enables SetRole. It must stay off outside demo builds.
	AllowRoleSwitch bool
}

// SessionStore owns the current authenticated identity of one client.
// The zero state is unauthenticated; Logout returns to it.
type SessionStore struct {
	credentials     *repository.CredentialRepository
	verifier        security.PasswordVerifier
	events          events.Publisher
	log             zerolog.Logger
	ownerEmail      string
	allowRoleSwitch bool
	now             func() time.Time

	mu      sync.RWMutex
	current *models.Session
}

type LoginResult struct {
	Session        models.Session
	RedirectTarget string
}

func NewSessionStore(opts SessionOptions) *SessionStore {
	verifier := opts.Verifier
	if verifier == nil {
		verifier = security.PlainVerifier{}
	}
	publisher := opts.Events
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	credentials := opts.Credentials
	if credentials == nil {
		credentials = repository.NewCredentialRepository()
	}
	return &SessionStore{
		credentials:     credentials,
		verifier:        verifier,
		events:          publisher,
		log:             opts.Logger,
		ownerEmail:      models.NormalizeEmail(opts.PlatformOwnerEmail),
		allowRoleSwitch: opts.AllowRoleSwitch,
		now:             time.Now,
	}
}

// Login authenticates against the credential table and installs a fresh
// session on success. On failure the prior session, if any, is kept.
func (s *SessionStore) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	email = models.NormalizeEmail(email)

	cred, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			s.loginFailed(email, ErrAccountNotFound)
			return LoginResult{}, ErrAccountNotFound
		}
		return LoginResult{}, fmt.Errorf("find credential: %w", err)
	}

	if !s.verifier.Verify(password, cred.Secret) {
		s.loginFailed(email, ErrInvalidPassword)
		return LoginResult{}, ErrInvalidPassword
	}

	session := cred.Template
	session.DeviceID = ids.NewPrefixed("dev")
	session.TrackingEnabled = true
	session.AuthenticatedAt = s.now().UTC()

	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()

	metrics.LoginAttempts.WithLabelValues(metrics.Result("")).Inc()
	s.log.Info().
		Str("user_id", session.ID).
		Str("email", session.Email).
		Str("role", string(session.Role)).
		Str("device_id", session.DeviceID).
		Msg("login succeeded")
	s.publish(ctx, events.TypeSessionLogin, map[string]string{
		"userId":   session.ID,
		"email":    session.Email,
		"deviceId": session.DeviceID,
	})

	return LoginResult{Session: session, RedirectTarget: s.RedirectFor(session)}, nil
}

func (s *SessionStore) loginFailed(email string, err error) {
	metrics.LoginAttempts.WithLabelValues(ErrorCode(err)).Inc()
	s.log.Warn().Str("email", email).Str("reason", ErrorCode(err)).Msg("login failed")
}

// RedirectFor routes the platform owner account to the owner area and every
// other identity to the dashboard. It depends on identity, not role.
func (s *SessionStore) RedirectFor(session models.Session) string {
	if s.ownerEmail != "" && models.NormalizeEmail(session.Email) == s.ownerEmail {
		return access.PathOwnerDashboard
	}
	return access.PathDashboard
}

// Logout clears the current session. Idempotent.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev == nil {
		return
	}
	s.log.Info().Str("user_id", prev.ID).Msg("logout")
	s.publish(ctx, events.TypeSessionLogout, map[string]string{
		"userId":   prev.ID,
		"deviceId": prev.DeviceID,
	})
}

// SetRole changes the current session's role without re-authentication.
// Demo capability: refused unless AllowRoleSwitch was set. No-op without a
// session.
func (s *SessionStore) SetRole(role models.Role) error {
	if !s.allowRoleSwitch {
		return ErrRoleSwitchDisabled
	}
	if !models.IsValidRole(role) {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	prev := s.current.Role
	s.current.Role = role
	s.log.Warn().
		Str("user_id", s.current.ID).
		Str("from", string(prev)).
		Str("to", string(role)).
		Msg("demo role switch")
	return nil
}

// BindDevice sets the device identifier and enables tracking. No-op without
// a session.
func (s *SessionStore) BindDevice(deviceID string) {
	deviceID = strings.TrimSpace(deviceID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.current.DeviceID = deviceID
	s.current.TrackingEnabled = true
	s.log.Info().Str("user_id", s.current.ID).Str("device_id", deviceID).Msg("device bound")
}

// RegisterCredential inserts or overwrites a credential. Used by invite
// acceptance and seeding.
func (s *SessionStore) RegisterCredential(ctx context.Context, email string, password string, template models.Session) error {
	secret, err := s.verifier.Seal(password)
	if err != nil {
		return fmt.Errorf("seal password: %w", err)
	}
	return s.credentials.Upsert(ctx, models.Credential{
		Email:    email,
		Secret:   secret,
		Template: template,
	})
}

// Current returns a copy of the current session.
func (s *SessionStore) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}

// Session returns a copy of the current session or nil, the form the
// access guards take.
func (s *SessionStore) Session() *models.Session {
	session, ok := s.Current()
	if !ok {
		return nil
	}
	return &session
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func (s *SessionStore) publish(ctx context.Context, eventType string, data map[string]string) {
	if err := s.events.Publish(ctx, events.New(eventType, data)); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Msg("publish event failed")
	}
}
