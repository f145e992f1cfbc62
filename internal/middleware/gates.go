package middleware

import (
	"net/http"
	"net/url"

	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/Confidence90/merchant-maple/internal/session"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// loginRedirect preserves the requested path so the client can return
// after authenticating.
func loginRedirect(c *drift.Context) string {
	return "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
}

// RequireSession is the generic gate: any confirmed session passes.
// Every request re-resolves; nothing is cached between requests.
func RequireSession(resolver *session.Resolver) drift.HandlerFunc {
	return func(c *drift.Context) {
		sessionID := GetSessionID(c)
		if sessionID == uuid.Nil {
			_ = c.JSON(http.StatusUnauthorized, map[string]string{
				"error":       "not authenticated",
				"redirect_to": loginRedirect(c),
			})
			return
		}

		res := resolver.Resolve(c.Request.Context(), sessionID, GetScope(c))
		switch res.State {
		case session.StateAuthenticated:
			c.Set(SessionUserKey, res.User)
			c.Next()
		case session.StateUnreachable:
			_ = c.JSON(http.StatusServiceUnavailable, map[string]any{
				"error": "authentication service unreachable",
				"retry": true,
			})
		default:
			_ = c.JSON(http.StatusUnauthorized, map[string]string{
				"error":       "session expired",
				"redirect_to": loginRedirect(c),
			})
		}
	}
}

// RequireVendor gates the vendor area: the session must resolve under the
// vendor scope AND the status evaluator must approve the seller. A refusal
// carries the evaluator's message and suggested redirect.
func RequireVendor(resolver *session.Resolver) drift.HandlerFunc {
	return func(c *drift.Context) {
		sessionID := GetSessionID(c)
		if sessionID == uuid.Nil {
			_ = c.JSON(http.StatusUnauthorized, map[string]string{
				"error":       "not authenticated",
				"redirect_to": loginRedirect(c),
			})
			return
		}

		res := resolver.Resolve(c.Request.Context(), sessionID, credstore.ScopeVendor)
		switch res.State {
		case session.StateAuthenticated:
			c.Set(SessionUserKey, res.User)
			c.Next()
		case session.StateDenied:
			_ = c.JSON(http.StatusForbidden, map[string]string{
				"error":       res.VendorStatus.Message,
				"redirect_to": res.VendorStatus.RedirectTo,
			})
		case session.StateUnreachable:
			_ = c.JSON(http.StatusServiceUnavailable, map[string]any{
				"error": "authentication service unreachable",
				"retry": true,
			})
		default:
			_ = c.JSON(http.StatusUnauthorized, map[string]string{
				"error":       "session expired",
				"redirect_to": loginRedirect(c),
			})
		}
	}
}
