package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	// Durable tier of the credential store. One row per (session, key);
	// keys follow the access_token / vendor_access_token naming contract.
	`CREATE TABLE IF NOT EXISTS credentials (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		session_id UUID NOT NULL,
		key VARCHAR(64) NOT NULL,
		value TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(session_id, key)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_credentials_session_id ON credentials(session_id)`,

	// Session bookkeeping used by the cleanup loop. A session with no
	// activity past expires_at is swept along with its credentials.
	`CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		scope VARCHAR(16) NOT NULL DEFAULT 'user',
		remember BOOLEAN NOT NULL DEFAULT FALSE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
