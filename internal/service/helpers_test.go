package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"workpulse/internal/repository"
)

type fixture struct {
	creds    *repository.CredentialRepository
	invites  *repository.InviteRepository
	opts     SessionOptions
	store    *SessionStore
	registry *InviteRegistry
}

// newFixture returns a seeded store and invite registry sharing one
// credential table.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	creds := repository.NewCredentialRepository()
	invites := repository.NewInviteRepository()
	opts := SessionOptions{
		Credentials:        creds,
		Logger:             zerolog.Nop(),
		PlatformOwnerEmail: DefaultPlatformOwnerEmail,
		AllowRoleSwitch:    true,
	}
	store := NewSessionStore(opts)
	if err := Seed(context.Background(), store, invites, DefaultPlatformOwnerEmail, zerolog.Nop()); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	return &fixture{
		creds:    creds,
		invites:  invites,
		opts:     opts,
		store:    store,
		registry: NewInviteRegistry(invites, nil, zerolog.Nop()),
	}
}
