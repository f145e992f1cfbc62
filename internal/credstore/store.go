package credstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Confidence90/merchant-maple/internal/models"
	"github.com/google/uuid"
)

// Scope selects which credential namespace a session uses. The generic and
// vendor namespaces coexist for the same session id and never mix.
type Scope string

const (
	ScopeUser   Scope = "user"
	ScopeVendor Scope = "vendor"
)

func (s Scope) prefix() string {
	if s == ScopeVendor {
		return "vendor_"
	}
	return ""
}

// Storage key names are a contract shared with every component that reads
// the store; do not rename.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// AllKeys lists every key either scope can write. Clear removes all of
// them regardless of which scope owned the session.
func AllKeys() []string {
	keys := make([]string, 0, 6)
	for _, scope := range []Scope{ScopeUser, ScopeVendor} {
		for _, k := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
			keys = append(keys, scope.prefix()+k)
		}
	}
	return keys
}

type Tier string

const (
	TierDurable   Tier = "durable"
	TierEphemeral Tier = "ephemeral"
)

// Credentials are the session fields held per (session, scope).
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// KV is one storage tier. Implementations: Postgres (durable, remember-me)
// and in-memory (ephemeral, gone on restart).
type KV interface {
	Set(ctx context.Context, sessionID uuid.UUID, key, value string) error
	Get(ctx context.Context, sessionID uuid.UUID, key string) (string, bool, error)
	Delete(ctx context.Context, sessionID uuid.UUID, keys ...string) error
}

// Store wraps the two tiers. Whichever tier was written at login is the
// one reads come back from; the tiers are never merged.
type Store struct {
	durable   KV
	ephemeral KV
}

func New(durable, ephemeral KV) *Store {
	return &Store{durable: durable, ephemeral: ephemeral}
}

func (s *Store) tier(t Tier) KV {
	if t == TierDurable {
		return s.durable
	}
	return s.ephemeral
}

// Write stores the credentials in the chosen tier only; the other tier is
// left untouched.
func (s *Store) Write(ctx context.Context, sessionID uuid.UUID, t Tier, scope Scope, creds Credentials) error {
	kv := s.tier(t)
	p := scope.prefix()

	if err := kv.Set(ctx, sessionID, p+KeyAccessToken, creds.AccessToken); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := kv.Set(ctx, sessionID, p+KeyRefreshToken, creds.RefreshToken); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	userJSON, err := json.Marshal(creds.User)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}
	if err := kv.Set(ctx, sessionID, p+KeyUser, string(userJSON)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// Read checks the durable tier first and falls back to the ephemeral tier.
// It returns (nil, "", nil) when neither tier holds an access token.
func (s *Store) Read(ctx context.Context, sessionID uuid.UUID, scope Scope) (*Credentials, Tier, error) {
	for _, t := range []Tier{TierDurable, TierEphemeral} {
		creds, ok, err := s.readTier(ctx, s.tier(t), sessionID, scope)
		if err != nil {
			return nil, "", err
		}
		if ok {
			return creds, t, nil
		}
	}
	return nil, "", nil
}

func (s *Store) readTier(ctx context.Context, kv KV, sessionID uuid.UUID, scope Scope) (*Credentials, bool, error) {
	p := scope.prefix()

	access, ok, err := kv.Get(ctx, sessionID, p+KeyAccessToken)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read access token: %w", err)
	}
	if !ok || access == "" {
		return nil, false, nil
	}

	refresh, _, err := kv.Get(ctx, sessionID, p+KeyRefreshToken)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read refresh token: %w", err)
	}

	creds := &Credentials{AccessToken: access, RefreshToken: refresh}

	userJSON, ok, err := kv.Get(ctx, sessionID, p+KeyUser)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read user: %w", err)
	}
	if ok && userJSON != "" {
		var user models.User
		// A corrupt cached user is recoverable: the resolver refetches
		// it from the whoami endpoint anyway.
		if err := json.Unmarshal([]byte(userJSON), &user); err == nil {
			creds.User = &user
		}
	}
	return creds, true, nil
}

// ReplaceAccessToken overwrites only the access token, in the tier that
// currently holds the session.
func (s *Store) ReplaceAccessToken(ctx context.Context, sessionID uuid.UUID, scope Scope, token string) error {
	p := scope.prefix()
	for _, t := range []Tier{TierDurable, TierEphemeral} {
		kv := s.tier(t)
		_, ok, err := kv.Get(ctx, sessionID, p+KeyAccessToken)
		if err != nil {
			return fmt.Errorf("failed to locate session tier: %w", err)
		}
		if ok {
			if err := kv.Set(ctx, sessionID, p+KeyAccessToken, token); err != nil {
				return fmt.Errorf("failed to replace access token: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("no stored session for %s", sessionID)
}

// Clear removes every known key from BOTH tiers. A session may have been
// written to either tier, so both are purged unconditionally.
func (s *Store) Clear(ctx context.Context, sessionID uuid.UUID) error {
	keys := AllKeys()
	var firstErr error
	for _, kv := range []KV{s.durable, s.ephemeral} {
		if err := kv.Delete(ctx, sessionID, keys...); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to clear credentials: %w", err)
		}
	}
	return firstErr
}
