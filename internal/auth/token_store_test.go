package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joestump/joe-stock/internal/auth"
	"github.com/joestump/joe-stock/internal/store"
	"github.com/joestump/joe-stock/internal/testutil"
)

func newTokenTestEnv(t *testing.T) (*auth.SQLTokenStore, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	u, err := store.NewUserStore(db).EnsureByEmail(context.Background(), "test@example.com", "Test User")
	require.NoError(t, err)
	return auth.NewSQLTokenStore(db), u.ID
}

func TestGenerateToken(t *testing.T) {
	plaintext, hash, err := auth.GenerateToken()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(plaintext, auth.TokenPrefix), "plaintext %q", plaintext)
	require.Greater(t, len(plaintext), 40)
	require.Len(t, hash, 64)
	require.Equal(t, hash, auth.HashToken(plaintext))

	other, _, err := auth.GenerateToken()
	require.NoError(t, err)
	require.NotEqual(t, plaintext, other)
}

func TestTokenStore_GetActiveByHash(t *testing.T) {
	ts, userID := newTokenTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	create := func(name string, expiresAt *time.Time) (*auth.TokenRecord, string) {
		_, hash, err := auth.GenerateToken()
		require.NoError(t, err)
		rec, err := ts.Create(ctx, userID, name, hash, expiresAt)
		require.NoError(t, err)
		return rec, hash
	}

	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	// A non-UTC zone must not shift the stored expiry.
	pastLocal := now.Add(-time.Minute).In(time.FixedZone("UTC+5", 5*60*60))

	_, neverHash := create("never-expires", nil)
	_, futureHash := create("future", &future)
	_, pastHash := create("past", &past)
	_, pastLocalHash := create("past-local", &pastLocal)
	revoked, revokedHash := create("revoked", &future)
	require.NoError(t, ts.Revoke(ctx, revoked.ID, userID))

	cases := []struct {
		name   string
		hash   string
		active bool
	}{
		{"no expiry", neverHash, true},
		{"expires later", futureHash, true},
		{"expired", pastHash, false},
		{"expired in another zone", pastLocalHash, false},
		{"revoked", revokedHash, false},
		{"unknown", auth.HashToken("js_unknown"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ts.GetActiveByHash(ctx, tc.hash, now)
			if !tc.active {
				require.ErrorIs(t, err, store.ErrNotFound)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.hash, got.TokenHash)
			require.Equal(t, userID, got.UserID)
			require.True(t, got.Active(now))
		})
	}
}

func TestTokenStore_GetActiveByHash_ExpiryIsRelativeToNow(t *testing.T) {
	ts, userID := newTokenTestEnv(t)
	ctx := context.Background()

	_, hash, _ := auth.GenerateToken()
	expiresAt := time.Now().Add(time.Hour)
	_, err := ts.Create(ctx, userID, "ci", hash, &expiresAt)
	require.NoError(t, err)

	_, err = ts.GetActiveByHash(ctx, hash, expiresAt.Add(-time.Second))
	require.NoError(t, err)
	_, err = ts.GetActiveByHash(ctx, hash, expiresAt.Add(time.Second))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenStore_Revoke(t *testing.T) {
	ts, userID := newTokenTestEnv(t)
	ctx := context.Background()

	_, hash, _ := auth.GenerateToken()
	rec, err := ts.Create(ctx, userID, "revoke-me", hash, nil)
	require.NoError(t, err)

	require.ErrorIs(t, ts.Revoke(ctx, rec.ID, "someone-else"), store.ErrNotFound)
	require.NoError(t, ts.Revoke(ctx, rec.ID, userID))
	require.ErrorIs(t, ts.Revoke(ctx, rec.ID, userID), store.ErrNotFound, "second revoke")
	require.ErrorIs(t, ts.Revoke(ctx, "nonexistent-id", userID), store.ErrNotFound)

	// Revoked tokens still show up in listings.
	records, err := ts.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].RevokedAt.Valid)
	require.False(t, records[0].Active(time.Now()))
}

func TestTokenStore_ListByUser(t *testing.T) {
	ts, userID := newTokenTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"token-1", "token-2"} {
		_, hash, _ := auth.GenerateToken()
		_, err := ts.Create(ctx, userID, name, hash, nil)
		require.NoError(t, err)
	}

	records, err := ts.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	none, err := ts.ListByUser(ctx, "no-such-user")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestTokenStore_UpdateLastUsed(t *testing.T) {
	ts, userID := newTokenTestEnv(t)
	ctx := context.Background()

	_, hash, _ := auth.GenerateToken()
	rec, err := ts.Create(ctx, userID, "track-usage", hash, nil)
	require.NoError(t, err)
	require.False(t, rec.LastUsedAt.Valid)

	require.NoError(t, ts.UpdateLastUsed(ctx, rec.ID))

	got, err := ts.GetActiveByHash(ctx, hash, time.Now())
	require.NoError(t, err)
	require.True(t, got.LastUsedAt.Valid)
}

// The store accepts any store.Querier, so token writes can join a transaction.
func TestTokenStore_InTransaction(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	u, err := store.NewUserStore(db).EnsureByEmail(ctx, "tx@example.com", "")
	require.NoError(t, err)

	_, hash, _ := auth.GenerateToken()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	_, err = auth.NewSQLTokenStore(tx).Create(ctx, u.ID, "rolled-back", hash, nil)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	_, err = auth.NewSQLTokenStore(db).GetActiveByHash(ctx, hash, time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenRecord_Active(t *testing.T) {
	now := time.Now()
	require.True(t, (&auth.TokenRecord{}).Active(now))

	var r auth.TokenRecord
	r.ExpiresAt.Time, r.ExpiresAt.Valid = now, true
	require.False(t, r.Active(now), "expiry is exclusive")
	require.True(t, r.Active(now.Add(-time.Nanosecond)))

	r.RevokedAt.Valid = true
	require.False(t, r.Active(now.Add(-time.Hour)))
}
