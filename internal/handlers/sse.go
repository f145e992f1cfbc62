package handlers

import (
	"github.com/Confidence90/merchant-maple/internal/middleware"
	"github.com/Confidence90/merchant-maple/internal/session"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// SSEHandler streams auth-change events for the caller's session, so a
// logout in one tab knocks the others out without polling.
type SSEHandler struct {
	events *session.Events
}

func NewSSEHandler(events *session.Events) *SSEHandler {
	return &SSEHandler{events: events}
}

func (h *SSEHandler) Connect(c *drift.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	sseCtx := c.SSE()

	sub := &session.Subscriber{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
	}

	h.events.Register(sub)
	defer h.events.Unregister(sub)

	if err := sseCtx.SendJSON(map[string]string{
		"type": "connected",
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-sub.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "auth", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
