package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tag represents a row in the tags table.
type Tag struct {
	ID        string    `db:"id"`
	StoreID   string    `db:"store_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// TagStore is the sqlx-backed TagRepository.
type TagStore struct {
	db Querier
}

func NewTagStore(db Querier) *TagStore {
	return &TagStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *TagStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a tag owned by storeID. Names are not unique.
func (s *TagStore) Create(ctx context.Context, storeID, name string) (*Tag, error) {
	t := &Tag{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO tags (id, store_id, name, created_at) VALUES (?, ?, ?, ?)
	`), t.ID, t.StoreID, t.Name, t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID returns the tag matching id, or ErrNotFound.
func (s *TagStore) GetByID(ctx context.Context, id string) (*Tag, error) {
	var t Tag
	err := s.db.GetContext(ctx, &t, s.q(`SELECT * FROM tags WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByStore returns all tags owned by storeID ordered by name.
func (s *TagStore) ListByStore(ctx context.Context, storeID string) ([]*Tag, error) {
	tags := []*Tag{}
	err := s.db.SelectContext(ctx, &tags, s.q(`
		SELECT * FROM tags WHERE store_id = ? ORDER BY name ASC, id ASC
	`), storeID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListByItem returns the tags linked to itemID ordered by name.
func (s *TagStore) ListByItem(ctx context.Context, itemID string) ([]*Tag, error) {
	tags := []*Tag{}
	err := s.db.SelectContext(ctx, &tags, s.q(`
		SELECT t.* FROM tags t
		INNER JOIN item_tags it ON it.tag_id = t.id
		WHERE it.item_id = ?
		ORDER BY t.name ASC, t.id ASC
	`), itemID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListItems returns the items linked to tagID ordered by name.
func (s *TagStore) ListItems(ctx context.Context, tagID string) ([]*Item, error) {
	items := []*Item{}
	err := s.db.SelectContext(ctx, &items, s.q(`
		SELECT i.* FROM items i
		INNER JOIN item_tags it ON it.item_id = i.id
		WHERE it.tag_id = ?
		ORDER BY i.name ASC, i.id ASC
	`), tagID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CountItems returns how many items are linked to tagID.
func (s *TagStore) CountItems(ctx context.Context, tagID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM item_tags WHERE tag_id = ?`), tagID)
	return n, err
}

// Link associates itemID with tagID. Linking an already-linked pair is a no-op;
// the returned bool reports whether a new row was written.
func (s *TagStore) Link(ctx context.Context, itemID, tagID string) (bool, error) {
	query := `INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?) ON CONFLICT (item_id, tag_id) DO NOTHING`
	if s.db.DriverName() == "mysql" {
		query = `INSERT IGNORE INTO item_tags (item_id, tag_id) VALUES (?, ?)`
	}
	res, err := s.db.ExecContext(ctx, s.q(query), itemID, tagID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return false, nil
		}
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Unlink removes the itemID/tagID association. Returns ErrNotLinked if the
// pair was not linked.
func (s *TagStore) Unlink(ctx context.Context, itemID, tagID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM item_tags WHERE item_id = ? AND tag_id = ?
	`), itemID, tagID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotLinked
	}
	return nil
}

// Delete removes the tag row. Association rows are never touched: a link that
// still exists, including one committed concurrently, makes the item_tags
// foreign key refuse the delete with ErrInUse. Returns ErrNotFound if no tag
// row was removed.
func (s *TagStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM tags WHERE id = ?`), id)
	if err != nil {
		if isForeignKeyError(err) {
			return ErrInUse
		}
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
