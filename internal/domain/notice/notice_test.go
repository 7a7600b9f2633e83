package notice

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHubRoutesByOwner(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	var alice, bob []Notice
	removeAlice := hub.Register("alice", func(n Notice) { alice = append(alice, n) })
	hub.Register("bob", func(n Notice) { bob = append(bob, n) })

	hub.Notify("alice", Info("Item Added", "x"))
	hub.Notify("bob", Error("Error Saving Item", "y"))
	hub.Notify("", Info("ignored", ""))

	assert.Len(t, alice, 1)
	assert.Equal(t, "Item Added", alice[0].Title)
	assert.Len(t, bob, 1)
	assert.Equal(t, LevelError, bob[0].Level)

	removeAlice()
	removeAlice()
	hub.Notify("alice", Info("Item Moved", "z"))
	assert.Len(t, alice, 1)
}

func TestHubIgnoresAnonymousRegistration(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	called := false
	hub.Register("", func(Notice) { called = true })
	hub.Notify("", Info("t", "d"))
	assert.False(t, called)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "Finish report", Preview("  Finish report "))

	long := strings.Repeat("a", 40)
	assert.Equal(t, strings.Repeat("a", 30)+"...", Preview(long))
}
