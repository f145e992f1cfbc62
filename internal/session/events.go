package session

import (
	"encoding/json"
	"sync"

	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/google/uuid"
)

// Event is the auth-change signal. Unlike a bare window event it carries
// the session and scope it concerns, and delivery per subscriber is
// ordered.
type Event struct {
	Type      string          `json:"type"` // "login", "logout", "refresh"
	SessionID uuid.UUID       `json:"session_id"`
	Scope     credstore.Scope `json:"scope"`
}

const (
	EventLogin   = "login"
	EventLogout  = "logout"
	EventRefresh = "refresh"
)

// Subscriber receives serialized events for one session on Send.
type Subscriber struct {
	ID        string
	SessionID uuid.UUID
	Send      chan []byte
}

// Events replaces the original's global authChange broadcast with an
// explicit subscribe hub.
type Events struct {
	subscribers map[string]*Subscriber
	register    chan *Subscriber
	unregister  chan *Subscriber
	broadcast   chan Event
	mu          sync.RWMutex
}

func NewEvents() *Events {
	return &Events{
		subscribers: make(map[string]*Subscriber),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan Event, 256),
	}
}

func (e *Events) Run() {
	for {
		select {
		case sub := <-e.register:
			e.mu.Lock()
			e.subscribers[sub.ID] = sub
			e.mu.Unlock()

		case sub := <-e.unregister:
			e.mu.Lock()
			if _, ok := e.subscribers[sub.ID]; ok {
				delete(e.subscribers, sub.ID)
				close(sub.Send)
			}
			e.mu.Unlock()

		case event := <-e.broadcast:
			e.mu.RLock()
			data, _ := json.Marshal(event)
			for _, sub := range e.subscribers {
				if sub.SessionID != event.SessionID {
					continue
				}
				select {
				case sub.Send <- data:
				default:
					// Subscriber buffer full, skip
				}
			}
			e.mu.RUnlock()
		}
	}
}

func (e *Events) Register(sub *Subscriber) {
	e.register <- sub
}

func (e *Events) Unregister(sub *Subscriber) {
	e.unregister <- sub
}

func (e *Events) Broadcast(eventType string, sessionID uuid.UUID, scope credstore.Scope) {
	e.broadcast <- Event{Type: eventType, SessionID: sessionID, Scope: scope}
}
