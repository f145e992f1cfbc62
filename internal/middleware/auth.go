package middleware

import (
	"strings"

	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/Confidence90/merchant-maple/internal/models"
	"github.com/Confidence90/merchant-maple/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	SessionIDKey    = "session_id"
	SessionScopeKey = "session_scope"
	SessionUserKey  = "session_user"
)

// Auth extracts the gateway session token. It only establishes which
// session the request speaks for; whether that session is still valid is
// the gates' job.
func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			c.Unauthorized("invalid or expired session token")
			return
		}

		c.Set(SessionIDKey, claims.SessionID)
		c.Set(SessionScopeKey, claims.Scope)

		c.Next()
	}
}

// AuthOptional identifies the session when a valid gateway token is
// presented and lets the request through anonymously otherwise. Boot-time
// probes use this: the absence of a session is an answer there, not an
// error.
func AuthOptional(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
				if claims, err := jwtService.ValidateAccessToken(parts[1]); err == nil {
					c.Set(SessionIDKey, claims.SessionID)
					c.Set(SessionScopeKey, claims.Scope)
				}
			}
		}
		c.Next()
	}
}

func GetSessionID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(SessionIDKey); ok {
		if sid, ok := id.(uuid.UUID); ok {
			return sid
		}
	}
	return uuid.Nil
}

func GetScope(c *drift.Context) credstore.Scope {
	if scope, ok := c.Get(SessionScopeKey); ok {
		if s, ok := scope.(credstore.Scope); ok {
			return s
		}
	}
	return credstore.ScopeUser
}

func GetSessionUser(c *drift.Context) *models.User {
	if user, ok := c.Get(SessionUserKey); ok {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}
