package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joestump/joe-stock/internal/db"
	"github.com/joestump/joe-stock/internal/store"
	_ "modernc.org/sqlite"
)

// NewTestDB opens an in-memory SQLite DB and runs all goose migrations.
func NewTestDB(t testing.TB) *sqlx.DB {
	t.Helper()

	// A file URI with shared cache lets every pool connection see the same
	// in-memory database. The name is random so property tests that call this
	// repeatedly within one test never share state. A single open connection
	// serializes the async last_used_at writer against request queries.
	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Up(conn, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// SeedStore inserts a store and fails the test on error.
func SeedStore(t testing.TB, conn *sqlx.DB, name string) *store.Store {
	t.Helper()
	s, err := store.NewStoreStore(conn).Create(context.Background(), name)
	if err != nil {
		t.Fatalf("seed store %q: %v", name, err)
	}
	return s
}

// SeedItem inserts an item into storeID and fails the test on error.
func SeedItem(t testing.TB, conn *sqlx.DB, storeID, name string, price float64) *store.Item {
	t.Helper()
	it, err := store.NewItemStore(conn).Create(context.Background(), storeID, name, price)
	if err != nil {
		t.Fatalf("seed item %q: %v", name, err)
	}
	return it
}
