package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
	"focusframe-server/internal/domain/session"
)

func types(events []StreamEvent) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func TestOutboxCoalescesSnapshots(t *testing.T) {
	box := newOutbox("test")

	box.State(session.StateSubscribed, "owner-1")
	box.Snapshot("owner-1", []item.Item{{ID: "a"}})
	box.Notice(notice.Info("Item Added", "x"))
	box.Snapshot("owner-1", []item.Item{{ID: "a"}, {ID: "b"}})

	events := box.drain()
	assert.Equal(t, []string{EventState, EventNotice, EventSnapshot}, types(events))

	payload, ok := events[2].Data.(SnapshotPayload)
	require.True(t, ok)
	assert.Len(t, payload.Items, 2)

	assert.Empty(t, box.drain())
}

func TestOutboxSignals(t *testing.T) {
	box := newOutbox("test")
	box.Error("boom")
	box.Error("boom again")

	select {
	case <-box.signal:
	default:
		t.Fatal("no signal pending")
	}
	select {
	case <-box.signal:
		t.Fatal("signals should collapse")
	default:
	}
	assert.Len(t, box.drain(), 2)
}

func TestOutboxDropsOldestNonSnapshotWhenFull(t *testing.T) {
	box := newOutbox("test")
	box.Snapshot("owner-1", nil)
	for i := 0; i < maxPendingEvents+5; i++ {
		box.Notice(notice.Info(fmt.Sprintf("n%d", i), ""))
	}

	events := box.drain()
	require.Len(t, events, maxPendingEvents)
	assert.Equal(t, EventSnapshot, events[0].Type, "the pending snapshot survives")

	last, ok := events[len(events)-1].Data.(notice.Notice)
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("n%d", maxPendingEvents+4), last.Title)
}

func TestSnapshotPayloadNeverNil(t *testing.T) {
	box := newOutbox("test")
	box.Snapshot("", nil)
	payload := box.drain()[0].Data.(SnapshotPayload)
	assert.NotNil(t, payload.Items)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example.com"})
	assert.True(t, check(requestWithOrigin("https://app.example.com")))
	assert.True(t, check(requestWithOrigin("")))
	assert.False(t, check(requestWithOrigin("https://other.example.com")))

	assert.True(t, originChecker([]string{"*"})(requestWithOrigin("https://any.example.com")))
}

func requestWithOrigin(origin string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/items/ws", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	return r
}
