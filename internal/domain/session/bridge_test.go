package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
	"focusframe-server/internal/infrastructure/changefeed"
	"focusframe-server/internal/infrastructure/repository/itemrepo"
)

type subscription struct {
	owner      string
	onSnapshot item.SnapshotFunc
	onError    item.ErrorFunc
	active     bool
}

// manualStore hands out subscriptions the test drives by hand.
type manualStore struct {
	item.Store

	mu     sync.Mutex
	subs   []*subscription
	events []string
}

func (s *manualStore) Subscribe(ownerID string, onSnapshot item.SnapshotFunc, onError item.ErrorFunc) item.Unsubscribe {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := &subscription{owner: ownerID, onSnapshot: onSnapshot, onError: onError, active: true}
	s.subs = append(s.subs, sub)
	s.events = append(s.events, "subscribe:"+ownerID)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub.active {
			sub.active = false
			s.events = append(s.events, "unsubscribe:"+ownerID)
		}
	}
}

func (s *manualStore) sub(i int) *subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs[i]
}

func (s *manualStore) log() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

type snapshotEvent struct {
	owner string
	items []item.Item
}

type recordingSink struct {
	mu        sync.Mutex
	snapshots []snapshotEvent
	notices   []notice.Notice
	states    []State
	ch        chan snapshotEvent
}

func newRecordingSink() *recordingSink {
	return &recordingSink{ch: make(chan snapshotEvent, 32)}
}

func (r *recordingSink) Snapshot(ownerID string, items []item.Item) {
	r.mu.Lock()
	r.snapshots = append(r.snapshots, snapshotEvent{ownerID, items})
	r.mu.Unlock()
	r.ch <- snapshotEvent{ownerID, items}
}

func (r *recordingSink) Notice(n notice.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingSink) State(state State, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recordingSink) noticeTitles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Title
	}
	return out
}

func (r *recordingSink) snapshotCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func items(contents ...string) []item.Item {
	out := make([]item.Item, len(contents))
	for i, c := range contents {
		out[i] = item.Item{ID: c, Content: c, Bucket: item.BucketControl}
	}
	return out
}

func TestBridgeStartsUnsubscribed(t *testing.T) {
	b := NewBridge(&manualStore{}, newRecordingSink(), zerolog.Nop())
	assert.Equal(t, StateUnsubscribed, b.State())
	assert.Equal(t, "", b.Owner())
	assert.NotNil(t, b.Items())
	assert.Empty(t, b.Items())
}

func TestBridgeDeliversSnapshots(t *testing.T) {
	store := &manualStore{}
	sink := newRecordingSink()
	b := NewBridge(store, sink, zerolog.Nop())

	b.SetOwner("owner-a")
	assert.Equal(t, StateSubscribed, b.State())

	store.sub(0).onSnapshot(items("one", "two"))
	assert.Len(t, b.Items(), 2)

	store.sub(0).onSnapshot(items("two"))
	require.Len(t, b.Items(), 1)
	assert.Equal(t, "two", b.Items()[0].ID)
}

func TestBridgeOwnerSwitchTearsDownFirst(t *testing.T) {
	store := &manualStore{}
	sink := newRecordingSink()
	b := NewBridge(store, sink, zerolog.Nop())

	b.SetOwner("owner-a")
	store.sub(0).onSnapshot(items("a1"))

	b.SetOwner("owner-b")
	assert.Equal(t, []string{"subscribe:owner-a", "unsubscribe:owner-a", "subscribe:owner-b"}, store.log())
	assert.Empty(t, b.Items(), "held list is cleared on switch")

	// A late snapshot from the old subscription never replaces the new owner's list.
	store.sub(0).onSnapshot(items("a1", "a2"))
	assert.Empty(t, b.Items())

	store.sub(1).onSnapshot(items("b1"))
	require.Len(t, b.Items(), 1)
	assert.Equal(t, "b1", b.Items()[0].ID)
	assert.Equal(t, "owner-b", b.Owner())
}

func TestBridgeSameOwnerIsNoop(t *testing.T) {
	store := &manualStore{}
	b := NewBridge(store, newRecordingSink(), zerolog.Nop())

	b.SetOwner("owner-a")
	b.SetOwner(" owner-a ")
	assert.Equal(t, []string{"subscribe:owner-a"}, store.log())
}

func TestBridgeSignOutClearsList(t *testing.T) {
	store := &manualStore{}
	sink := newRecordingSink()
	b := NewBridge(store, sink, zerolog.Nop())

	b.SetOwner("owner-a")
	store.sub(0).onSnapshot(items("a1"))
	b.Close()

	assert.Equal(t, StateUnsubscribed, b.State())
	assert.Empty(t, b.Items())
	assert.Equal(t, []string{"subscribe:owner-a", "unsubscribe:owner-a"}, store.log())

	sink.mu.Lock()
	last := sink.snapshots[len(sink.snapshots)-1]
	sink.mu.Unlock()
	assert.Equal(t, "", last.owner)
	assert.Empty(t, last.items)
}

func TestBridgeErrorKeepsListAndNotifies(t *testing.T) {
	store := &manualStore{}
	sink := newRecordingSink()
	b := NewBridge(store, sink, zerolog.Nop())

	b.SetOwner("owner-a")
	store.sub(0).onSnapshot(items("a1"))
	store.sub(0).onError(errors.New("permission denied"))

	assert.Len(t, b.Items(), 1)
	assert.Equal(t, []string{"Error Loading Items"}, sink.noticeTitles())

	// Errors from a replaced subscription are ignored.
	b.SetOwner("owner-b")
	store.sub(0).onError(errors.New("late"))
	assert.Equal(t, []string{"Error Loading Items"}, sink.noticeTitles())
}

func TestBridgeSignOutDuringInFlightCreate(t *testing.T) {
	ctx := context.Background()
	repo := itemrepo.NewInMemoryRepository()
	store := item.NewStore(repo, changefeed.NewMemoryFeed(), zerolog.Nop())
	sink := newRecordingSink()
	b := NewBridge(store, sink, zerolog.Nop())

	b.SetOwner("owner-a")
	select {
	case ev := <-sink.ch:
		assert.Empty(t, ev.items)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Create(ctx, "owner-a", item.Draft{Content: "Finish report", Bucket: item.BucketControl})
	}()
	b.SetOwner("")
	<-done

	// The write may have landed, but the signed-out bridge never shows it.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, b.Items())
	assert.Equal(t, StateUnsubscribed, b.State())

	n, err := store.Count(ctx, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBridgeWithLiveStore(t *testing.T) {
	ctx := context.Background()
	store := item.NewStore(itemrepo.NewInMemoryRepository(), changefeed.NewMemoryFeed(), zerolog.Nop())
	sink := newRecordingSink()
	b := NewBridge(store, sink, zerolog.Nop())
	defer b.Close()

	b.SetOwner("owner-a")
	_, err := store.Create(ctx, "owner-a", item.Draft{Content: "Finish report", Bucket: item.BucketControl})
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sink.ch:
			if len(ev.items) == 1 {
				assert.Equal(t, "owner-a", ev.owner)
				assert.Equal(t, "Finish report", ev.items[0].Content)
				return
			}
		case <-deadline:
			t.Fatalf("item never delivered, %d snapshots seen", sink.snapshotCount())
		}
	}
}
