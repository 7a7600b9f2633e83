package item

import "context"

// Repository persists items for a single owner at a time.
// ListByOwner returns items ordered by CreatedAt descending.
type Repository interface {
	Insert(ctx context.Context, ownerID string, draft Draft) (Item, error)
	FindByID(ctx context.Context, ownerID, id string) (Item, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Item, error)
	// Update applies the patch to the stored row, returning ErrNotFound when it is missing.
	Update(ctx context.Context, ownerID, id string, patch Patch) (Item, error)
	// Delete is a no-op for missing rows.
	Delete(ctx context.Context, ownerID, id string) error
	// DeleteAll removes every item of the owner as one atomic batch.
	DeleteAll(ctx context.Context, ownerID string) (int, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

// ChangeFeed signals that an owner's items changed.
type ChangeFeed interface {
	Publish(ctx context.Context, ownerID string) error
	// Listen returns a channel that receives at least one value after every
	// Publish for the owner. Pending signals coalesce.
	Listen(ownerID string) (<-chan struct{}, func())
}

// SnapshotFunc receives the full ordered item list of an owner.
type SnapshotFunc func(items []Item)

// ErrorFunc receives the error that ended a subscription.
type ErrorFunc func(err error)

// Unsubscribe stops a subscription. It is safe to call more than once.
type Unsubscribe func()

// Store is the item store surface the rest of the service talks to.
type Store interface {
	Subscribe(ownerID string, onSnapshot SnapshotFunc, onError ErrorFunc) Unsubscribe
	Create(ctx context.Context, ownerID string, draft Draft) (string, error)
	Get(ctx context.Context, ownerID, id string) (Item, error)
	List(ctx context.Context, ownerID string) ([]Item, error)
	Update(ctx context.Context, ownerID, id string, patch Patch) error
	Delete(ctx context.Context, ownerID, id string) error
	DeleteAll(ctx context.Context, ownerID string) error
	Count(ctx context.Context, ownerID string) (int64, error)
}
