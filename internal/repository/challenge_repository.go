package repository

import (
	"context"
	"errors"
	"sync"

	"workpulse/internal/models"
)

var ErrChallengeNotFound = errors.New("challenge not found")

// ChallengeRepository holds at most one challenge per phone.
type ChallengeRepository struct {
	mu    sync.Mutex
	items map[string]models.Challenge
}

func NewChallengeRepository() *ChallengeRepository {
	return &ChallengeRepository{items: make(map[string]models.Challenge)}
}

// Put replaces whatever challenge the phone had.
func (r *ChallengeRepository) Put(_ context.Context, challenge models.Challenge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[challenge.Phone] = challenge
}

func (r *ChallengeRepository) Get(_ context.Context, phone string) (models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[phone]
	if !ok {
		return models.Challenge{}, ErrChallengeNotFound
	}
	return c, nil
}

// Update applies fn to the phone's challenge under the repository lock and
// stores the result. fn's error aborts without writing.
func (r *ChallengeRepository) Update(_ context.Context, phone string, fn func(*models.Challenge) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[phone]
	if !ok {
		return ErrChallengeNotFound
	}
	if err := fn(&c); err != nil {
		return err
	}
	r.items[phone] = c
	return nil
}
