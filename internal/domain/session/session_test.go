package session

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"focusframe-server/internal/domain/notice"
)

type fakeRegistrar struct {
	mu     sync.Mutex
	active map[string]int
}

func (f *fakeRegistrar) Register(ownerID string, _ notice.Sink) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil {
		f.active = make(map[string]int)
	}
	f.active[ownerID]++
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.active[ownerID]--
	}
}

func (f *fakeRegistrar) count(ownerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active[ownerID]
}

func TestSessionIdentifyAndSignOut(t *testing.T) {
	store := &manualStore{}
	sink := newRecordingSink()
	registrar := &fakeRegistrar{}
	s := New(store, registrar, sink, zerolog.Nop())

	s.Identify("owner-a")
	assert.Equal(t, "owner-a", s.Owner())
	assert.Equal(t, StateSubscribed, s.State())
	assert.Equal(t, 1, registrar.count("owner-a"))

	s.Identify("owner-b")
	assert.Zero(t, registrar.count("owner-a"))
	assert.Equal(t, 1, registrar.count("owner-b"))

	s.SignOut()
	assert.Zero(t, registrar.count("owner-b"))
	assert.Equal(t, StateUnsubscribed, s.State())
	assert.Empty(t, s.Items())

	assert.Equal(t, []string{"Signed In", "Signed In", "Signed Out"}, sink.noticeTitles())
	assert.Equal(t, []State{StateSubscribed, StateSubscribed, StateUnsubscribed}, sink.states)
}

func TestSessionRepeatedIdentifyIsNoop(t *testing.T) {
	store := &manualStore{}
	sink := newRecordingSink()
	s := New(store, &fakeRegistrar{}, sink, zerolog.Nop())

	s.Identify("owner-a")
	s.Identify("owner-a")
	s.SignOut()
	s.SignOut()

	assert.Equal(t, []string{"Signed In", "Signed Out"}, sink.noticeTitles())
	assert.Equal(t, []string{"subscribe:owner-a", "unsubscribe:owner-a"}, store.log())
}

func TestSessionCloseReleases(t *testing.T) {
	store := &manualStore{}
	registrar := &fakeRegistrar{}
	s := New(store, registrar, newRecordingSink(), zerolog.Nop())

	s.Identify("owner-a")
	s.Close()

	assert.Zero(t, registrar.count("owner-a"))
	assert.Equal(t, []string{"subscribe:owner-a", "unsubscribe:owner-a"}, store.log())
}
