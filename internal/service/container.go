package service

import (
	"context"

	"github.com/rs/zerolog"

	"workpulse/internal/events"
	"workpulse/internal/repository"
	"workpulse/internal/security"
)

// Dependencies configure NewContainer. Zero values select in-memory
// repositories, the plain verifier and a no-op publisher.
type Dependencies struct {
	Verifier           security.PasswordVerifier
	Events             events.Publisher
	Logger             zerolog.Logger
	PlatformOwnerEmail string
	AllowRoleSwitch    bool
	Seed               bool
}

// Container holds the access-core services of one process. All of them
// share one credential table.
type Container struct {
	Credentials *repository.CredentialRepository
	Clients     *ClientRegistry
	OTP         *OTPService
	Invites     *InviteRegistry
}

func NewContainer(ctx context.Context, deps Dependencies) (*Container, error) {
	publisher := deps.Events
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	ownerEmail := deps.PlatformOwnerEmail
	if ownerEmail == "" {
		ownerEmail = DefaultPlatformOwnerEmail
	}

	credentials := repository.NewCredentialRepository()
	invites := repository.NewInviteRepository()
	challenges := repository.NewChallengeRepository()

	opts := SessionOptions{
		Credentials:        credentials,
		Verifier:           deps.Verifier,
		Events:             publisher,
		Logger:             deps.Logger.With().Str("component", "session").Logger(),
		PlatformOwnerEmail: ownerEmail,
		AllowRoleSwitch:    deps.AllowRoleSwitch,
	}

	if deps.Seed {
		if err := Seed(ctx, NewSessionStore(opts), invites, ownerEmail, deps.Logger); err != nil {
			return nil, err
		}
	}

	return &Container{
		Credentials: credentials,
		Clients:     NewClientRegistry(opts, deps.Logger.With().Str("component", "clients").Logger()),
		OTP:         NewOTPService(challenges, publisher, deps.Logger.With().Str("component", "otp").Logger()),
		Invites:     NewInviteRegistry(invites, publisher, deps.Logger.With().Str("component", "invites").Logger()),
	}, nil
}
