package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item represents a row in the items table.
type Item struct {
	ID        string    `db:"id"`
	StoreID   string    `db:"store_id"`
	Name      string    `db:"name"`
	Price     float64   `db:"price"`
	CreatedAt time.Time `db:"created_at"`
}

// ItemStore is the sqlx-backed ItemRepository.
type ItemStore struct {
	db Querier
}

func NewItemStore(db Querier) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new item owned by storeID. Like StoreStore.Create it only
// backs seeding and tests.
func (s *ItemStore) Create(ctx context.Context, storeID, name string, price float64) (*Item, error) {
	it := &Item{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Name:      strings.TrimSpace(name),
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO items (id, store_id, name, price, created_at) VALUES (?, ?, ?, ?, ?)
	`), it.ID, it.StoreID, it.Name, it.Price, it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// GetByID returns the item matching id, or ErrNotFound.
func (s *ItemStore) GetByID(ctx context.Context, id string) (*Item, error) {
	var it Item
	err := s.db.GetContext(ctx, &it, s.q(`SELECT * FROM items WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}
