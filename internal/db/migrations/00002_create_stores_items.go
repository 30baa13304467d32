package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateStoresItems, downCreateStoresItems)
}

func upCreateStoresItems(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS stores (
    id         %[1]s PRIMARY KEY,
    name       %[2]s NOT NULL UNIQUE,
    created_at %[3]s NOT NULL
)`, idType(), nameType(), timestampType()),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS items (
    id         %[1]s PRIMARY KEY,
    store_id   %[1]s NOT NULL,
    name       %[2]s NOT NULL,
    price      %[4]s NOT NULL DEFAULT 0,
    created_at %[3]s NOT NULL,
    FOREIGN KEY (store_id) REFERENCES stores(id)
)`, idType(), nameType(), timestampType(), floatType()),

		`CREATE INDEX idx_items_store_id ON items (store_id)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create stores/items schema: %w", err)
		}
	}
	return nil
}

func downCreateStoresItems(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS items`,
		`DROP TABLE IF EXISTS stores`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
