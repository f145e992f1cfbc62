package handlers

import (
	"net/http"

	"github.com/Confidence90/merchant-maple/internal/middleware"
	"github.com/Confidence90/merchant-maple/internal/session"
	"github.com/Confidence90/merchant-maple/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	resolver ResolverInterface
}

func NewUserHandler(resolver ResolverInterface) *UserHandler {
	return &UserHandler{resolver: resolver}
}

// GetMe runs behind the generic gate, which already resolved the session
// and cached the user on the context.
func (h *UserHandler) GetMe(c *drift.Context) {
	user := middleware.GetSessionUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	_ = c.JSON(http.StatusOK, dto.SessionResponse{
		Authenticated: true,
		User:          user,
	})
}

// GetSession reports resolution state without gating: an anonymous caller
// gets {authenticated: false}, never a 401. Clients use it on boot.
func (h *UserHandler) GetSession(c *drift.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == uuid.Nil {
		_ = c.JSON(http.StatusOK, dto.SessionResponse{Authenticated: false})
		return
	}

	res := h.resolver.Resolve(c.Request.Context(), sessionID, middleware.GetScope(c))
	switch res.State {
	case session.StateAuthenticated:
		_ = c.JSON(http.StatusOK, dto.SessionResponse{
			Authenticated: true,
			User:          res.User,
		})
	case session.StateUnreachable:
		_ = c.JSON(http.StatusServiceUnavailable, map[string]any{
			"error": "authentication service unreachable",
			"retry": true,
		})
	default:
		_ = c.JSON(http.StatusOK, dto.SessionResponse{Authenticated: false})
	}
}
