package store_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/joestump/joe-stock/internal/store"
	"github.com/joestump/joe-stock/internal/testutil"
)

func newMockUnitOfWork(t *testing.T) (*store.SQLUnitOfWork, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return store.NewSQLUnitOfWork(sqlx.NewDb(mockDB, "sqlite3")), mock
}

func TestSQLUnitOfWork_CommitsOnSuccess(t *testing.T) {
	uow, mock := newMockUnitOfWork(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM stores WHERE id = ?`)).
		WithArgs("store-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow("store-1", "Main", time.Now()))
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(r store.Repositories) error {
		s, err := r.Stores.GetByID(context.Background(), "store-1")
		if err != nil {
			return err
		}
		require.Equal(t, "Main", s.Name)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUnitOfWork_RollsBackOnError(t *testing.T) {
	uow, mock := newMockUnitOfWork(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tags`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := uow.Do(context.Background(), func(r store.Repositories) error {
		_, err := r.Tags.Create(context.Background(), "store-1", "fragile")
		return err
	})
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUnitOfWork_BeginError(t *testing.T) {
	uow, mock := newMockUnitOfWork(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	called := false
	err := uow.Do(context.Background(), func(store.Repositories) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUnitOfWork_CommitError(t *testing.T) {
	uow, mock := newMockUnitOfWork(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	err := uow.Do(context.Background(), func(store.Repositories) error { return nil })
	require.ErrorContains(t, err, "commit tx")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUnitOfWork_RollbackLeavesNoRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := testutil.SeedStore(t, db, "Main Street")
	uow := store.NewSQLUnitOfWork(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := uow.Do(ctx, func(r store.Repositories) error {
		if _, err := r.Tags.Create(ctx, s.ID, "ghost"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	tags, err := store.NewTagStore(db).ListByStore(ctx, s.ID)
	require.NoError(t, err)
	require.Empty(t, tags)
}
