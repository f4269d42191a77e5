package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"workpulse/internal/models"
	"workpulse/internal/repository"
)

// Seed accounts. The platform owner's email is supplied by configuration so
// the redirect rule and the seeded account cannot drift apart.
const (
	DefaultPlatformOwnerEmail = "owner@workpulse.io"
	seedOwnerPassword         = "owner123"
)

var (
	acme   = models.Company{ID: "cmp_acme", Name: "Acme Corp"}
	globex = models.Company{ID: "cmp_globex", Name: "Globex"}
)

type seedAccount struct {
	password string
	session  models.Session
}

var seedAccounts = []seedAccount{
	{"admin123", models.Session{ID: "usr_alice", Name: "Alice Carter", Email: "alice@acme.com", Role: models.RoleCompanyAdmin, Company: acme}},
	{"manager123", models.Session{ID: "usr_bob", Name: "Bob Nguyen", Email: "bob@acme.com", Role: models.RoleSubAdmin, Company: acme}},
	{"user123", models.Session{ID: "usr_carol", Name: "Carol Diaz", Email: "carol@acme.com", Role: models.RoleUser, Company: acme}},
	{"admin123", models.Session{ID: "usr_dave", Name: "Dave Kim", Email: "dave@globex.com", Role: models.RoleCompanyAdmin, Company: globex}},
}

// Seed invite tokens are fixed so the demo UI can link to them.
var seedInvites = []models.Invite{
	{Token: "inv_demo_pending", Email: "eve@acme.com", Role: models.RoleUser, CompanyID: acme.ID, CompanyName: acme.Name, Status: models.InviteStatusPending},
	{Token: "inv_demo_expired", Email: "frank@acme.com", Role: models.RoleSubAdmin, CompanyID: acme.ID, CompanyName: acme.Name, Status: models.InviteStatusExpired},
	{Token: "inv_demo_accepted", Email: "carol@acme.com", Role: models.RoleUser, CompanyID: acme.ID, CompanyName: acme.Name, Status: models.InviteStatusAccepted},
}

// Seed loads the demo accounts and invites. Credentials go through
// store.RegisterCredential so they are sealed by the configured verifier.
func Seed(ctx context.Context, store *SessionStore, invites *repository.InviteRepository, ownerEmail string, log zerolog.Logger) error {
	if ownerEmail == "" {
		ownerEmail = DefaultPlatformOwnerEmail
	}

	owner := models.Session{
		ID:    "usr_owner",
		Name:  "Platform Owner",
		Email: ownerEmail,
		Role:  models.RoleSuperAdmin,
	}
	if err := store.RegisterCredential(ctx, owner.Email, seedOwnerPassword, owner); err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}

	for _, acct := range seedAccounts {
		if err := store.RegisterCredential(ctx, acct.session.Email, acct.password, acct.session); err != nil {
			return fmt.Errorf("seed %s: %w", acct.session.Email, err)
		}
	}

	created := time.Now().UTC().Add(-72 * time.Hour)
	for i, inv := range seedInvites {
		inv.CreatedAt = created.Add(time.Duration(i) * time.Hour)
		if inv.Status == models.InviteStatusAccepted {
			at := inv.CreatedAt.Add(time.Hour)
			inv.AcceptedAt = &at
		}
		if err := invites.Create(ctx, inv); err != nil {
			return fmt.Errorf("seed invite %s: %w", inv.Token, err)
		}
	}

	log.Info().
		Int("accounts", len(seedAccounts)+1).
		Int("invites", len(seedInvites)).
		Str("owner", ownerEmail).
		Msg("demo data seeded")
	return nil
}
