package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTags, downCreateTags)
}

// upCreateTags creates tags and the item_tags association. The composite primary
// key on item_tags keeps the association duplicate-free, and the tag_id foreign
// key refuses to delete a tag that is still linked. Foreign keys are declared at
// table level because MySQL ignores column-level REFERENCES.
func upCreateTags(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tags (
    id         %[1]s PRIMARY KEY,
    store_id   %[1]s NOT NULL,
    name       %[2]s NOT NULL,
    created_at %[3]s NOT NULL,
    FOREIGN KEY (store_id) REFERENCES stores(id)
)`, idType(), nameType(), timestampType()),

		`CREATE INDEX idx_tags_store_id ON tags (store_id)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS item_tags (
    item_id %[1]s NOT NULL,
    tag_id  %[1]s NOT NULL,
    PRIMARY KEY (item_id, tag_id),
    FOREIGN KEY (item_id) REFERENCES items(id),
    FOREIGN KEY (tag_id) REFERENCES tags(id)
)`, idType()),

		`CREATE INDEX idx_item_tags_tag_id ON item_tags (tag_id)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tags schema: %w", err)
		}
	}
	return nil
}

func downCreateTags(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS item_tags`,
		`DROP TABLE IF EXISTS tags`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
