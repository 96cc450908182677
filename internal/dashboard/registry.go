package dashboard

import (
	"sync"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/store"
)

// Registry hands out one Dashboard per signed-in user and tears it down
// when the session identity goes away.
type Registry struct {
	client store.Client

	mu         sync.Mutex
	dashboards map[uuid.UUID]*Dashboard
}

func NewRegistry(client store.Client) *Registry {
	return &Registry{
		client:     client,
		dashboards: make(map[uuid.UUID]*Dashboard),
	}
}

// For returns the user's dashboard, creating it on first use. Creation is
// cheap; nothing is fetched until EnsureLoaded runs.
func (r *Registry) For(userID uuid.UUID) *Dashboard {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dashboards[userID]
	if !ok {
		d = New(r.client, userID)
		r.dashboards[userID] = d
	}
	return d
}

// Drop resets and forgets the user's dashboard. Called on sign-out; any
// remote call still in flight finds its state reset and discards its
// result.
func (r *Registry) Drop(userID uuid.UUID) {
	r.mu.Lock()
	d, ok := r.dashboards[userID]
	if ok {
		delete(r.dashboards, userID)
	}
	r.mu.Unlock()
	if ok {
		d.Reset()
	}
}
