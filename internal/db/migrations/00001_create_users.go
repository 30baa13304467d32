package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsers, downCreateUsers)
}

func upCreateUsers(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
    id           %[1]s PRIMARY KEY,
    email        %[2]s NOT NULL UNIQUE,
    display_name %[2]s NOT NULL DEFAULT '',
    created_at   %[3]s NOT NULL
)`, idType(), nameType(), timestampType()),

		// last_used_at is nullable and written asynchronously by the bearer middleware.
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS api_tokens (
    id           %[1]s PRIMARY KEY,
    user_id      %[1]s NOT NULL,
    name         %[2]s NOT NULL,
    token_hash   VARCHAR(64) NOT NULL UNIQUE,
    last_used_at %[3]s NULL,
    expires_at   %[3]s NULL,
    created_at   %[3]s NOT NULL,
    revoked_at   %[3]s NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`, idType(), nameType(), timestampType()),

		`CREATE INDEX idx_api_tokens_user_id ON api_tokens (user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create users schema: %w", err)
		}
	}
	return nil
}

func downCreateUsers(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS api_tokens`,
		`DROP TABLE IF EXISTS users`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
