package session

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
)

// Registrar registers notice sinks per owner.
type Registrar interface {
	Register(ownerID string, sink notice.Sink) func()
}

// Session is one connected client: a bridge plus a notice registration for
// the same owner.
type Session struct {
	bridge  *Bridge
	notices Registrar
	sink    Sink

	mu         sync.Mutex
	unregister func()
}

// New creates an anonymous session.
func New(store item.Store, notices Registrar, sink Sink, log zerolog.Logger) *Session {
	return &Session{
		bridge:  NewBridge(store, sink, log),
		notices: notices,
		sink:    sink,
	}
}

// Identify switches the session to ownerID. An empty owner signs it out.
func (s *Session) Identify(ownerID string) {
	ownerID = strings.TrimSpace(ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.bridge.Owner()
	if ownerID == previous {
		return
	}
	if s.unregister != nil {
		s.unregister()
		s.unregister = nil
	}

	s.bridge.SetOwner(ownerID)
	if ownerID != "" {
		s.unregister = s.notices.Register(ownerID, s.sink.Notice)
	}
	s.sink.State(s.bridge.State(), ownerID)

	switch {
	case ownerID != "":
		s.sink.Notice(notice.Info("Signed In", "Successfully signed in."))
	case previous != "":
		s.sink.Notice(notice.Info("Signed Out", "Successfully signed out."))
	}
}

// SignOut is Identify("").
func (s *Session) SignOut() {
	s.Identify("")
}

// Owner returns the session's current owner.
func (s *Session) Owner() string {
	return s.bridge.Owner()
}

// State returns the bridge state.
func (s *Session) State() State {
	return s.bridge.State()
}

// Items returns the last snapshot held by the session.
func (s *Session) Items() []item.Item {
	return s.bridge.Items()
}

// Close releases the subscription and the notice registration.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unregister != nil {
		s.unregister()
		s.unregister = nil
	}
	s.bridge.Close()
}
