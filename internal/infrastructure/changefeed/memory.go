// Package changefeed signals item changes per owner to live subscriptions.
package changefeed

import (
	"context"
	"sync"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/infrastructure/metrics"
)

type listener struct {
	ch chan struct{}
}

// MemoryFeed fans signals out inside one process.
type MemoryFeed struct {
	mu        sync.RWMutex
	listeners map[string]map[*listener]struct{}
}

// NewMemoryFeed creates an empty in-process feed.
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{listeners: make(map[string]map[*listener]struct{})}
}

// Publish wakes every listener of the owner. A listener that already has a
// pending signal is left as is.
func (f *MemoryFeed) Publish(ctx context.Context, ownerID string) error {
	f.deliver(ownerID)
	metrics.ChangeSignals.WithLabelValues("memory").Inc()
	return nil
}

func (f *MemoryFeed) deliver(ownerID string) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for l := range f.listeners[ownerID] {
		select {
		case l.ch <- struct{}{}:
		default:
		}
	}
}

// Listen registers a listener. The returned func removes it and closes the channel.
func (f *MemoryFeed) Listen(ownerID string) (<-chan struct{}, func()) {
	l := &listener{ch: make(chan struct{}, 1)}

	f.mu.Lock()
	if f.listeners[ownerID] == nil {
		f.listeners[ownerID] = make(map[*listener]struct{})
	}
	f.listeners[ownerID][l] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return l.ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.listeners[ownerID], l)
			if len(f.listeners[ownerID]) == 0 {
				delete(f.listeners, ownerID)
			}
			close(l.ch)
		})
	}
}

// Listeners returns the number of listeners for an owner.
func (f *MemoryFeed) Listeners(ownerID string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.listeners[ownerID])
}

var _ item.ChangeFeed = (*MemoryFeed)(nil)
