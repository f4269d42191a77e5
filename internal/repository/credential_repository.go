package repository

import (
	"context"
	"errors"
	"sync"

	"workpulse/internal/models"
)

var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository is the process-lifetime credential table keyed by
// lower-cased email. Entries are never deleted.
type CredentialRepository struct {
	mu    sync.RWMutex
	items map[string]models.Credential
}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{items: make(map[string]models.Credential)}
}

// Upsert inserts or overwrites the credential for its email.
func (r *CredentialRepository) Upsert(_ context.Context, cred models.Credential) error {
	key := models.NormalizeEmail(cred.Email)
	if key == "" {
		return errors.New("credential email required")
	}
	cred.Email = key
	cred.Template.Email = key

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = cred
	return nil
}

func (r *CredentialRepository) FindByEmail(_ context.Context, email string) (models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cred, ok := r.items[models.NormalizeEmail(email)]
	if !ok {
		return models.Credential{}, ErrCredentialNotFound
	}
	return cred, nil
}

func (r *CredentialRepository) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
