package credstore

import (
	"context"
	"errors"

	"github.com/Confidence90/merchant-maple/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresKV is the durable tier, backing "remember me" sessions.
type PostgresKV struct {
	db *database.DB
}

func NewPostgresKV(db *database.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

func (p *PostgresKV) Set(ctx context.Context, sessionID uuid.UUID, key, value string) error {
	_, err := p.db.Pool.Exec(ctx, `
		INSERT INTO credentials (session_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, sessionID, key, value)
	return err
}

func (p *PostgresKV) Get(ctx context.Context, sessionID uuid.UUID, key string) (string, bool, error) {
	var value string
	err := p.db.Pool.QueryRow(ctx, `
		SELECT value FROM credentials
		WHERE session_id = $1 AND key = $2
	`, sessionID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *PostgresKV) Delete(ctx context.Context, sessionID uuid.UUID, keys ...string) error {
	_, err := p.db.Pool.Exec(ctx, `
		DELETE FROM credentials
		WHERE session_id = $1 AND key = ANY($2)
	`, sessionID, keys)
	return err
}

// CleanupOrphaned removes credential rows whose session bookkeeping entry
// has expired. Run periodically alongside the session sweep.
func (p *PostgresKV) CleanupOrphaned(ctx context.Context) error {
	_, err := p.db.Pool.Exec(ctx, `
		DELETE FROM credentials c
		WHERE NOT EXISTS (
			SELECT 1 FROM sessions s
			WHERE s.id = c.session_id AND s.expires_at > NOW()
		)
	`)
	return err
}
