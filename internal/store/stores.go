package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrStoreNameTaken is returned when creating a store whose name is already used.
var ErrStoreNameTaken = errors.New("store name already exists")

// Store represents a row in the stores table.
type Store struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// StoreStore is the sqlx-backed StoreRepository.
type StoreStore struct {
	db Querier
}

func NewStoreStore(db Querier) *StoreStore {
	return &StoreStore{db: db}
}

func (s *StoreStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new store. Store management has no HTTP surface; this is
// used by seeding and tests.
func (s *StoreStore) Create(ctx context.Context, name string) (*Store, error) {
	st := &Store{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO stores (id, name, created_at) VALUES (?, ?, ?)
	`), st.ID, st.Name, st.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrStoreNameTaken
		}
		return nil, err
	}
	return st, nil
}

// GetByID returns the store matching id, or ErrNotFound.
func (s *StoreStore) GetByID(ctx context.Context, id string) (*Store, error) {
	var st Store
	err := s.db.GetContext(ctx, &st, s.q(`SELECT * FROM stores WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
