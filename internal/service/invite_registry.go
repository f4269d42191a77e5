package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"workpulse/internal/events"
	"workpulse/internal/ids"
	"workpulse/internal/metrics"
	"workpulse/internal/models"
	"workpulse/internal/repository"
)

// InviteRegistry owns outstanding invitations and turns an accepted one
// into a credential plus a logged-in session.
type InviteRegistry struct {
	invites  *repository.InviteRepository
	events   events.Publisher
	log      zerolog.Logger
	now      func() time.Time
	newToken func() string

	// locks serialises Accept per token.
	locks sync.Map
}

func NewInviteRegistry(invites *repository.InviteRepository, publisher events.Publisher, log zerolog.Logger) *InviteRegistry {
	if invites == nil {
		invites = repository.NewInviteRepository()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &InviteRegistry{
		invites: invites,
		events:  publisher,
		log:     log,
		now:     time.Now,
		newToken: func() string {
			return ids.NewPrefixed("inv")
		},
	}
}

// Create stores a pending invite under a fresh token. Several invites to the
// same address may be outstanding at once.
func (r *InviteRegistry) Create(ctx context.Context, email string, role models.Role, companyID string, companyName string) (models.Invite, error) {
	email = models.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return models.Invite{}, fmt.Errorf("%w: valid email is required", ErrInvalidInvite)
	}
	if !models.IsValidRole(role) {
		return models.Invite{}, fmt.Errorf("%w: unsupported role %s", ErrInvalidInvite, role)
	}

	invite := models.Invite{
		Token:       r.newToken(),
		Email:       email,
		Role:        role,
		CompanyID:   strings.TrimSpace(companyID),
		CompanyName: strings.TrimSpace(companyName),
		Status:      models.InviteStatusPending,
		CreatedAt:   r.now().UTC(),
	}
	if err := r.invites.Create(ctx, invite); err != nil {
		return models.Invite{}, fmt.Errorf("store invite: %w", err)
	}

	r.log.Info().
		Str("email", invite.Email).
		Str("role", string(invite.Role)).
		Str("company_id", invite.CompanyID).
		Msg("invite created")
	r.publish(ctx, events.TypeInviteCreated, map[string]string{
		"token":       invite.Token,
		"email":       invite.Email,
		"role":        string(invite.Role),
		"companyName": invite.CompanyName,
	})

	return invite, nil
}

// Accept redeems token: it registers a credential on store, marks the
// invite accepted and logs the new identity in on store. The whole sequence
// runs under a lock scoped to the token, so only one of several concurrent
// attempts can succeed. Any failure before the status flip leaves state
// unchanged.
func (r *InviteRegistry) Accept(ctx context.Context, token string, name string, password string, store *SessionStore) (LoginResult, error) {
	result, err := r.accept(ctx, strings.TrimSpace(token), name, password, store)
	metrics.InviteAcceptances.WithLabelValues(metrics.Result(ErrorCode(err))).Inc()
	if err != nil {
		r.log.Warn().Str("reason", ErrorCode(err)).Msg("invite acceptance failed")
	}
	return result, err
}

func (r *InviteRegistry) accept(ctx context.Context, token string, name string, password string, store *SessionStore) (LoginResult, error) {
	if store == nil {
		return LoginResult{}, errors.New("session store required")
	}

	// Only known tokens get a lock entry, so bogus tokens cannot grow the
	// map. Invites are never deleted, so the lookup stays valid once true.
	if _, err := r.invites.Get(ctx, token); err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return LoginResult{}, ErrInvalidToken
		}
		return LoginResult{}, fmt.Errorf("load invite: %w", err)
	}

	mu := r.lockFor(token)
	mu.Lock()
	defer mu.Unlock()

	invite, err := r.invites.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return LoginResult{}, ErrInvalidToken
		}
		return LoginResult{}, fmt.Errorf("load invite: %w", err)
	}

	switch invite.Status {
	case models.InviteStatusExpired:
		return LoginResult{}, ErrInviteExpired
	case models.InviteStatusAccepted:
		return LoginResult{}, ErrAlreadyAccepted
	}

	if password == "" {
		return LoginResult{}, fmt.Errorf("%w: password is required", ErrInvalidInvite)
	}

	template := models.Session{
		ID:    uuid.NewString(),
		Name:  displayName(name, invite.Email),
		Email: invite.Email,
		Role:  invite.Role,
		Company: models.Company{
			ID:   invite.CompanyID,
			Name: invite.CompanyName,
		},
		DeviceID:        ids.NewPrefixed("dev"),
		TrackingEnabled: true,
	}
	if err := store.RegisterCredential(ctx, invite.Email, password, template); err != nil {
		return LoginResult{}, fmt.Errorf("register credential: %w", err)
	}

	acceptedAt := r.now().UTC()
	invite.Status = models.InviteStatusAccepted
	invite.AcceptedAt = &acceptedAt
	if err := r.invites.Update(ctx, invite); err != nil {
		return LoginResult{}, fmt.Errorf("mark invite accepted: %w", err)
	}

	r.log.Info().Str("email", invite.Email).Str("role", string(invite.Role)).Msg("invite accepted")
	r.publish(ctx, events.TypeInviteAccepted, map[string]string{
		"token":  invite.Token,
		"email":  invite.Email,
		"userId": template.ID,
	})

	return store.Login(ctx, invite.Email, password)
}

func (r *InviteRegistry) lockFor(token string) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(token, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (r *InviteRegistry) Get(ctx context.Context, token string) (models.Invite, error) {
	invite, err := r.invites.Get(ctx, strings.TrimSpace(token))
	if errors.Is(err, repository.ErrInviteNotFound) {
		return models.Invite{}, ErrInvalidToken
	}
	return invite, err
}

// List returns every invite in creation order.
func (r *InviteRegistry) List(ctx context.Context) []models.Invite {
	return r.invites.List(ctx)
}

// ListForCompany returns the invites targeting companyID.
func (r *InviteRegistry) ListForCompany(ctx context.Context, companyID string) []models.Invite {
	all := r.invites.List(ctx)
	out := make([]models.Invite, 0, len(all))
	for _, inv := range all {
		if inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out
}

func (r *InviteRegistry) publish(ctx context.Context, eventType string, data map[string]string) {
	if err := r.events.Publish(ctx, events.New(eventType, data)); err != nil {
		r.log.Warn().Err(err).Str("event", eventType).Msg("publish event failed")
	}
}

func displayName(name string, email string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
