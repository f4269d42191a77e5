package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"workpulse/internal/ids"
	"workpulse/internal/metrics"
)

type clientEntry struct {
	store    *SessionStore
	lastSeen time.Time
}

// ClientRegistry hands each HTTP client its own SessionStore. All stores
// share the credential table and options given at construction.
type ClientRegistry struct {
	opts SessionOptions
	log  zerolog.Logger
	now  func() time.Time

	mu      sync.Mutex
	clients map[string]*clientEntry
}

func NewClientRegistry(opts SessionOptions, log zerolog.Logger) *ClientRegistry {
	return &ClientRegistry{
		opts:    opts,
		log:     log,
		now:     time.Now,
		clients: make(map[string]*clientEntry),
	}
}

// Open returns the store of a known client and marks it as seen.
func (r *ClientRegistry) Open(clientID string) (*SessionStore, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.clients[clientID]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.store, true
}

// Anonymous returns an unregistered, unauthenticated store. It lives only
// as long as the request unless handed to Adopt.
func (r *ClientRegistry) Anonymous() *SessionStore {
	return NewSessionStore(r.opts)
}

// Adopt registers store under a new client id.
func (r *ClientRegistry) Adopt(store *SessionStore) string {
	clientID := ids.NewPrefixed("cli")

	r.mu.Lock()
	r.clients[clientID] = &clientEntry{store: store, lastSeen: r.now()}
	count := len(r.clients)
	r.mu.Unlock()

	metrics.ActiveClients.Set(float64(count))
	return clientID
}

// Create registers a new client with an unauthenticated store.
func (r *ClientRegistry) Create() (string, *SessionStore) {
	store := r.Anonymous()
	return r.Adopt(store), store
}

// Prune drops clients not seen for longer than idle and returns how many
// were removed.
func (r *ClientRegistry) Prune(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	removed := 0
	for id, entry := range r.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(r.clients, id)
			removed++
		}
	}
	count := len(r.clients)
	r.mu.Unlock()

	metrics.ActiveClients.Set(float64(count))
	if removed > 0 {
		r.log.Info().Int("removed", removed).Int("remaining", count).Msg("pruned idle clients")
	}
	return removed
}

func (r *ClientRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
