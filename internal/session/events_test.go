package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, ch chan []byte) Event {
	t.Helper()
	select {
	case data := <-ch:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestEventsDeliverToMatchingSession(t *testing.T) {
	events := NewEvents()
	go events.Run()

	sessionID := uuid.New()
	sub := &Subscriber{
		ID:        "sub-1",
		SessionID: sessionID,
		Send:      make(chan []byte, 8),
	}
	events.Register(sub)
	defer events.Unregister(sub)

	events.Broadcast(EventLogin, sessionID, credstore.ScopeUser)

	event := receiveEvent(t, sub.Send)
	assert.Equal(t, EventLogin, event.Type)
	assert.Equal(t, sessionID, event.SessionID)
	assert.Equal(t, credstore.ScopeUser, event.Scope)
}

func TestEventsDoNotLeakAcrossSessions(t *testing.T) {
	events := NewEvents()
	go events.Run()

	mine := uuid.New()
	theirs := uuid.New()

	mySub := &Subscriber{ID: "mine", SessionID: mine, Send: make(chan []byte, 8)}
	theirSub := &Subscriber{ID: "theirs", SessionID: theirs, Send: make(chan []byte, 8)}
	events.Register(mySub)
	events.Register(theirSub)
	defer events.Unregister(mySub)
	defer events.Unregister(theirSub)

	events.Broadcast(EventLogout, theirs, credstore.ScopeUser)
	events.Broadcast(EventRefresh, mine, credstore.ScopeVendor)

	// The first event this subscriber sees is its own; the other
	// session's logout never arrives here.
	event := receiveEvent(t, mySub.Send)
	assert.Equal(t, EventRefresh, event.Type)
	assert.Equal(t, mine, event.SessionID)

	event = receiveEvent(t, theirSub.Send)
	assert.Equal(t, EventLogout, event.Type)
	assert.Equal(t, theirs, event.SessionID)
}

func TestEventsOrderedPerSubscriber(t *testing.T) {
	events := NewEvents()
	go events.Run()

	sessionID := uuid.New()
	sub := &Subscriber{ID: "ordered", SessionID: sessionID, Send: make(chan []byte, 8)}
	events.Register(sub)
	defer events.Unregister(sub)

	events.Broadcast(EventLogin, sessionID, credstore.ScopeUser)
	events.Broadcast(EventRefresh, sessionID, credstore.ScopeUser)
	events.Broadcast(EventLogout, sessionID, credstore.ScopeUser)

	assert.Equal(t, EventLogin, receiveEvent(t, sub.Send).Type)
	assert.Equal(t, EventRefresh, receiveEvent(t, sub.Send).Type)
	assert.Equal(t, EventLogout, receiveEvent(t, sub.Send).Type)
}

func TestEventsUnregisterClosesChannel(t *testing.T) {
	events := NewEvents()
	go events.Run()

	sub := &Subscriber{ID: "closing", SessionID: uuid.New(), Send: make(chan []byte, 8)}
	events.Register(sub)
	events.Unregister(sub)

	select {
	case _, open := <-sub.Send:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel was not closed on unregister")
	}
}
