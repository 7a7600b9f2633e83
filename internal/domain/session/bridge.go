// Package session keeps one client session in sync with its owner's items.
package session

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
)

// State of a bridge.
type State string

const (
	StateUnsubscribed State = "unsubscribed"
	StateSubscribed   State = "subscribed"
)

// Sink receives everything a session pushes to its client. Calls are
// serialized per session and must not block for long.
type Sink interface {
	Snapshot(ownerID string, items []item.Item)
	Notice(n notice.Notice)
	State(state State, ownerID string)
}

// Bridge holds at most one live item subscription and the list it last
// delivered. Snapshots from a subscription that has been replaced are dropped.
type Bridge struct {
	store item.Store
	sink  Sink
	log   zerolog.Logger

	// transition serializes owner changes; mu guards the fields below and is
	// never held while calling into the store.
	transition sync.Mutex

	mu    sync.Mutex
	gen   uint64
	owner string
	items []item.Item
	unsub item.Unsubscribe
}

// NewBridge creates an unsubscribed bridge.
func NewBridge(store item.Store, sink Sink, log zerolog.Logger) *Bridge {
	return &Bridge{
		store: store,
		sink:  sink,
		items: []item.Item{},
		log:   log.With().Str("component", "subscription-bridge").Logger(),
	}
}

// SetOwner moves the bridge to the subscription of ownerID. An empty owner
// means unsubscribed. The previous subscription is torn down first.
func (b *Bridge) SetOwner(ownerID string) {
	ownerID = strings.TrimSpace(ownerID)

	b.transition.Lock()
	defer b.transition.Unlock()

	b.mu.Lock()
	if ownerID == b.owner {
		b.mu.Unlock()
		return
	}
	previous := b.unsub
	b.unsub = nil
	b.mu.Unlock()

	if previous != nil {
		previous()
	}

	b.mu.Lock()
	b.gen++
	gen := b.gen
	left := b.owner
	b.owner = ownerID
	b.items = []item.Item{}
	if left != "" {
		b.sink.Snapshot(ownerID, []item.Item{})
	}
	b.mu.Unlock()

	b.log.Debug().Str("from", left).Str("to", ownerID).Msg("owner changed")

	if ownerID == "" {
		return
	}

	unsub := b.store.Subscribe(ownerID, b.snapshotHandler(gen), b.errorHandler(gen))

	b.mu.Lock()
	b.unsub = unsub
	b.mu.Unlock()
}

// Close tears down the subscription and clears the held list.
func (b *Bridge) Close() {
	b.SetOwner("")
}

// Owner returns the owner currently subscribed to, or "".
func (b *Bridge) Owner() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owner
}

// State reports whether the bridge holds a subscription.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.owner == "" {
		return StateUnsubscribed
	}
	return StateSubscribed
}

// Items returns a copy of the last delivered list.
func (b *Bridge) Items() []item.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]item.Item, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Bridge) snapshotHandler(gen uint64) item.SnapshotFunc {
	return func(items []item.Item) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen != gen {
			return
		}
		if items == nil {
			items = []item.Item{}
		}
		b.items = items
		b.sink.Snapshot(b.owner, items)
	}
}

func (b *Bridge) errorHandler(gen uint64) item.ErrorFunc {
	return func(err error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen != gen {
			return
		}
		b.log.Error().Err(err).Str("owner_id", b.owner).Msg("item subscription ended")
		b.sink.Notice(notice.Error("Error Loading Items", "Could not fetch items."))
	}
}
