package repository

import (
	"context"
	"errors"
	"sync"

	"workpulse/internal/models"
)

var (
	ErrInviteNotFound = errors.New("invite not found")
	ErrInviteExists   = errors.New("invite token already exists")
)

// InviteRepository keeps invites in creation order.
type InviteRepository struct {
	mu      sync.RWMutex
	byTok   map[string]*models.Invite
	ordered []string
}

func NewInviteRepository() *InviteRepository {
	return &InviteRepository{byTok: make(map[string]*models.Invite)}
}

// Create stores a new invite. Tokens are never reused.
func (r *InviteRepository) Create(_ context.Context, invite models.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byTok[invite.Token]; ok {
		return ErrInviteExists
	}
	stored := invite
	r.byTok[invite.Token] = &stored
	r.ordered = append(r.ordered, invite.Token)
	return nil
}

func (r *InviteRepository) Get(_ context.Context, token string) (models.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.byTok[token]
	if !ok {
		return models.Invite{}, ErrInviteNotFound
	}
	return *inv, nil
}

// Update replaces the stored invite with the same token.
func (r *InviteRepository) Update(_ context.Context, invite models.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byTok[invite.Token]
	if !ok {
		return ErrInviteNotFound
	}
	*inv = invite
	return nil
}

func (r *InviteRepository) List(_ context.Context) []models.Invite {
	r.mu.RLock()
	defer r.mu.RUnlock()
	invites := make([]models.Invite, 0, len(r.ordered))
	for _, tok := range r.ordered {
		invites = append(invites, *r.byTok[tok])
	}
	return invites
}
