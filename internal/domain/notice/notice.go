// Package notice carries transient user-facing messages to live sessions.
package notice

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is never persisted.
type Notice struct {
	Level       Level     `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Info builds an informational notice.
func Info(title, description string) Notice {
	return Notice{Level: LevelInfo, Title: title, Description: description, CreatedAt: time.Now().UTC()}
}

// Error builds an error notice.
func Error(title, description string) Notice {
	return Notice{Level: LevelError, Title: title, Description: description, CreatedAt: time.Now().UTC()}
}

// Preview shortens item text for use inside a notice description.
func Preview(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= 30 {
		return content
	}
	runes := []rune(content)
	return string(runes[:30]) + "..."
}

// Notifier delivers notices to an owner.
type Notifier interface {
	Notify(ownerID string, n Notice)
}

// Sink receives notices for one session. It must not block.
type Sink func(Notice)

// Hub fans notices out to every registered sink of an owner.
type Hub struct {
	mu    sync.RWMutex
	sinks map[string]map[uint64]Sink
	next  uint64
	log   zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		sinks: make(map[string]map[uint64]Sink),
		log:   log.With().Str("component", "notice-hub").Logger(),
	}
}

// Register adds a sink for the owner and returns its removal func.
func (h *Hub) Register(ownerID string, sink Sink) func() {
	if ownerID == "" || sink == nil {
		return func() {}
	}

	h.mu.Lock()
	h.next++
	id := h.next
	if h.sinks[ownerID] == nil {
		h.sinks[ownerID] = make(map[uint64]Sink)
	}
	h.sinks[ownerID][id] = sink
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.sinks[ownerID], id)
			if len(h.sinks[ownerID]) == 0 {
				delete(h.sinks, ownerID)
			}
		})
	}
}

// Notify delivers n to the owner's sinks. Notices for the anonymous owner are dropped.
func (h *Hub) Notify(ownerID string, n Notice) {
	if ownerID == "" {
		return
	}

	h.mu.RLock()
	targets := make([]Sink, 0, len(h.sinks[ownerID]))
	for _, sink := range h.sinks[ownerID] {
		targets = append(targets, sink)
	}
	h.mu.RUnlock()

	h.log.Debug().
		Str("owner_id", ownerID).
		Str("level", string(n.Level)).
		Str("title", n.Title).
		Int("sinks", len(targets)).
		Msg("notice")

	for _, sink := range targets {
		sink(n)
	}
}
