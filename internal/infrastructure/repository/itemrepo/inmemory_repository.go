package itemrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/utils/idgen"
)

type record struct {
	item item.Item
	seq  uint64
}

// InMemoryRepository is a thread-safe item repository for tests and local runs.
type InMemoryRepository struct {
	mu     sync.RWMutex
	owners map[string]map[string]*record
	seq    uint64
	now    func() time.Time
}

// NewInMemoryRepository creates an empty repository using the wall clock.
func NewInMemoryRepository() *InMemoryRepository {
	return NewInMemoryRepositoryWithClock(func() time.Time { return time.Now().UTC() })
}

// NewInMemoryRepositoryWithClock lets tests pin creation times.
func NewInMemoryRepositoryWithClock(now func() time.Time) *InMemoryRepository {
	return &InMemoryRepository{
		owners: make(map[string]map[string]*record),
		now:    now,
	}
}

func (r *InMemoryRepository) Insert(ctx context.Context, ownerID string, draft item.Draft) (item.Item, error) {
	id, err := idgen.ItemID()
	if err != nil {
		return item.Item{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	created := item.Item{
		ID:        id,
		OwnerID:   ownerID,
		Content:   draft.Content,
		Bucket:    draft.Bucket,
		CreatedAt: r.now(),
	}
	if r.owners[ownerID] == nil {
		r.owners[ownerID] = make(map[string]*record)
	}
	r.owners[ownerID][id] = &record{item: created, seq: r.seq}
	return created, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, ownerID, id string) (item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.owners[ownerID][id]
	if !ok {
		return item.Item{}, item.ErrNotFound
	}
	return cloneItem(rec.item), nil
}

func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]item.Item, error) {
	r.mu.RLock()
	records := make([]*record, 0, len(r.owners[ownerID]))
	for _, rec := range r.owners[ownerID] {
		records = append(records, rec)
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.item.CreatedAt.Equal(b.item.CreatedAt) {
			return a.item.CreatedAt.After(b.item.CreatedAt)
		}
		return a.seq > b.seq
	})

	items := make([]item.Item, len(records))
	for i, rec := range records {
		items[i] = cloneItem(rec.item)
	}
	return items, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, ownerID, id string, patch item.Patch) (item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.owners[ownerID][id]
	if !ok {
		return item.Item{}, item.ErrNotFound
	}
	rec.item = patch.Apply(cloneItem(rec.item))
	return cloneItem(rec.item), nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.owners[ownerID], id)
	return nil
}

func (r *InMemoryRepository) DeleteAll(ctx context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := len(r.owners[ownerID])
	delete(r.owners, ownerID)
	return removed, nil
}

func (r *InMemoryRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.owners[ownerID])), nil
}

func cloneItem(it item.Item) item.Item {
	if it.Suggestion != nil {
		s := *it.Suggestion
		it.Suggestion = &s
	}
	return it
}

var _ item.Repository = (*InMemoryRepository)(nil)
