package item

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type store struct {
	repo Repository
	feed ChangeFeed
	log  zerolog.Logger
}

// NewStore builds the item store on top of a repository and a change feed.
func NewStore(repo Repository, feed ChangeFeed, log zerolog.Logger) Store {
	return &store{
		repo: repo,
		feed: feed,
		log:  log.With().Str("component", "item-store").Logger(),
	}
}

func requireOwner(ctx context.Context, ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return NewValidationError(ctx, "an authenticated owner is required")
	}
	return nil
}

func (s *store) Create(ctx context.Context, ownerID string, draft Draft) (string, error) {
	if err := requireOwner(ctx, ownerID); err != nil {
		return "", err
	}
	normalized, err := NewDraft(ctx, draft.Content, draft.Bucket)
	if err != nil {
		return "", err
	}

	created, err := s.repo.Insert(ctx, ownerID, normalized)
	if err != nil {
		return "", NewStoreError(ctx, "create item", err)
	}
	s.publish(ctx, ownerID)
	return created.ID, nil
}

func (s *store) Get(ctx context.Context, ownerID, id string) (Item, error) {
	if err := requireOwner(ctx, ownerID); err != nil {
		return Item{}, err
	}
	found, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return Item{}, NewStoreError(ctx, "get item", err)
	}
	return found, nil
}

func (s *store) List(ctx context.Context, ownerID string) ([]Item, error) {
	if strings.TrimSpace(ownerID) == "" {
		return []Item{}, nil
	}
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, NewStoreError(ctx, "list items", err)
	}
	return items, nil
}

func (s *store) Update(ctx context.Context, ownerID, id string, patch Patch) error {
	if err := requireOwner(ctx, ownerID); err != nil {
		return err
	}
	normalized, err := patch.Normalize(ctx)
	if err != nil {
		return err
	}
	if normalized.IsEmpty() {
		return nil
	}
	if _, err := s.repo.Update(ctx, ownerID, id, normalized); err != nil {
		return NewStoreError(ctx, "update item", err)
	}
	s.publish(ctx, ownerID)
	return nil
}

func (s *store) Delete(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ctx, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return NewStoreError(ctx, "delete item", err)
	}
	s.publish(ctx, ownerID)
	return nil
}

func (s *store) DeleteAll(ctx context.Context, ownerID string) error {
	if err := requireOwner(ctx, ownerID); err != nil {
		return err
	}
	removed, err := s.repo.DeleteAll(ctx, ownerID)
	if err != nil {
		return NewStoreError(ctx, "delete all items", err)
	}
	if removed == 0 {
		return nil
	}
	s.log.Info().Str("owner_id", ownerID).Int("removed", removed).Msg("deleted all items")
	s.publish(ctx, ownerID)
	return nil
}

func (s *store) Count(ctx context.Context, ownerID string) (int64, error) {
	if strings.TrimSpace(ownerID) == "" {
		return 0, nil
	}
	n, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return 0, NewStoreError(ctx, "count items", err)
	}
	return n, nil
}

// publish runs after an acknowledged write; a lost signal only delays
// subscribers until the next change, so failures are logged and dropped.
func (s *store) publish(ctx context.Context, ownerID string) {
	if err := s.feed.Publish(context.WithoutCancel(ctx), ownerID); err != nil {
		s.log.Warn().Err(err).Str("owner_id", ownerID).Msg("publish item change")
	}
}

func (s *store) Subscribe(ownerID string, onSnapshot SnapshotFunc, onError ErrorFunc) Unsubscribe {
	if strings.TrimSpace(ownerID) == "" {
		onSnapshot([]Item{})
		return func() {}
	}

	signals, stopListening := s.feed.Listen(ownerID)
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		ctx:        ctx,
		owner:      ownerID,
		repo:       s.repo,
		signals:    signals,
		onSnapshot: onSnapshot,
		onError:    onError,
		log:        s.log,
		done:       make(chan struct{}),
	}

	go sub.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.close()
			cancel()
			stopListening()
		})
	}
}

// subscription reloads the owner's full list whenever the feed signals.
// Callbacks run under mu so nothing is delivered once close returns.
type subscription struct {
	ctx        context.Context
	owner      string
	repo       Repository
	signals    <-chan struct{}
	onSnapshot SnapshotFunc
	onError    ErrorFunc
	log        zerolog.Logger
	done       chan struct{}

	mu     sync.Mutex
	closed bool
}

func (s *subscription) run() {
	defer close(s.done)

	if !s.load() {
		return
	}
	for {
		select {
		case <-s.ctx.Done():
			return
		case _, ok := <-s.signals:
			if !ok {
				return
			}
			if !s.load() {
				return
			}
		}
	}
}

func (s *subscription) load() bool {
	items, err := s.repo.ListByOwner(s.ctx, s.owner)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if err != nil {
		s.closed = true
		s.log.Error().Err(err).Str("owner_id", s.owner).Msg("item subscription failed")
		if s.onError != nil {
			s.onError(NewStoreError(s.ctx, "subscribe items", err))
		}
		return false
	}
	s.onSnapshot(items)
	return true
}

func (s *subscription) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
