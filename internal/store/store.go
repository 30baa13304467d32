package store

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotLinked is returned when removing an item/tag association that does not exist.
	ErrNotLinked = errors.New("item is not tagged with this tag")

	// ErrInUse is returned when a delete is refused because other rows still reference the target.
	ErrInUse = errors.New("still referenced")
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx, so every store can run
// either directly against the pool or inside a unit of work.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// StoreRepository looks up stores.
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*Store, error)
}

// ItemRepository looks up items.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*Item, error)
}

// TagRepository exposes tag rows and the item_tags association.
// Relationship reads return materialized slices; nothing is loaded lazily.
type TagRepository interface {
	Create(ctx context.Context, storeID, name string) (*Tag, error)
	GetByID(ctx context.Context, id string) (*Tag, error)
	ListByStore(ctx context.Context, storeID string) ([]*Tag, error)
	ListByItem(ctx context.Context, itemID string) ([]*Tag, error)
	ListItems(ctx context.Context, tagID string) ([]*Item, error)
	CountItems(ctx context.Context, tagID string) (int, error)
	Link(ctx context.Context, itemID, tagID string) (bool, error)
	Unlink(ctx context.Context, itemID, tagID string) error
	Delete(ctx context.Context, id string) error
}

// Repositories is the set of repositories bound to a single unit of work.
type Repositories struct {
	Stores StoreRepository
	Items  ItemRepository
	Tags   TagRepository
}

// UnitOfWork runs fn against repositories sharing one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Repositories) error) error
}
