package services

import (
	"context"
	"time"

	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/Confidence90/merchant-maple/internal/database"
	"github.com/google/uuid"
)

// SessionService keeps the bookkeeping rows the cleanup sweep uses to
// expire durable sessions.
type SessionService struct {
	db *database.DB
}

func NewSessionService(db *database.DB) *SessionService {
	return &SessionService{db: db}
}

func (s *SessionService) Record(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope, remember bool, expiresAt time.Time) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO sessions (id, scope, remember, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET scope = EXCLUDED.scope, remember = EXCLUDED.remember, expires_at = EXCLUDED.expires_at
	`, sessionID, string(scope), remember, expiresAt)
	return err
}

func (s *SessionService) Forget(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	return err
}

func (s *SessionService) CleanupExpired(ctx context.Context) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	return err
}
