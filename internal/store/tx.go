package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLUnitOfWork is the sqlx-backed UnitOfWork.
type SQLUnitOfWork struct {
	db *sqlx.DB
}

func NewSQLUnitOfWork(db *sqlx.DB) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db}
}

// Do begins a transaction, binds fresh repositories to it and runs fn.
func (u *SQLUnitOfWork) Do(ctx context.Context, fn func(Repositories) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(bind(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func bind(q Querier) Repositories {
	return Repositories{
		Stores: NewStoreStore(q),
		Items:  NewItemStore(q),
		Tags:   NewTagStore(q),
	}
}
