package ownerrepo

import (
	"context"
	"sync"
	"time"

	"focusframe-server/internal/domain/owner"
)

// InMemoryRepository keeps owner profiles in a map.
type InMemoryRepository struct {
	mu     sync.RWMutex
	owners map[string]owner.Owner
}

// NewInMemoryRepository creates an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{owners: make(map[string]owner.Owner)}
}

func (r *InMemoryRepository) Upsert(ctx context.Context, identity owner.Identity, signedInAt time.Time) (owner.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.owners[identity.ID]
	if !ok {
		o = owner.Owner{ID: identity.ID, CreatedAt: signedInAt}
	}
	if identity.Email != "" {
		o.Email = identity.Email
	}
	if identity.DisplayName != "" {
		o.DisplayName = identity.DisplayName
	}
	o.LastSignInAt = signedInAt
	r.owners[identity.ID] = o
	return o, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (owner.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.owners[id]
	if !ok {
		return owner.Owner{}, owner.ErrNotFound
	}
	return o, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.owners, id)
	return nil
}

var _ owner.Repository = (*InMemoryRepository)(nil)
