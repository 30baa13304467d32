package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/joestump/joe-stock/internal/api"
	"github.com/joestump/joe-stock/internal/auth"
	"github.com/joestump/joe-stock/internal/store"
	"github.com/joestump/joe-stock/internal/tags"
	"github.com/joestump/joe-stock/internal/testutil"
)

// testEnv holds the router and stores needed for API integration tests.
type testEnv struct {
	DB         *sqlx.DB
	Router     http.Handler
	UserStore  *store.UserStore
	TokenStore *auth.SQLTokenStore
	Signer     *auth.JWTSigner
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	us := store.NewUserStore(db)
	ts := auth.NewSQLTokenStore(db)
	signer := auth.NewJWTSigner("test-secret", time.Hour)

	router := api.NewRouter(api.Deps{
		BearerAuth: auth.NewBearerTokenMiddleware(ts, us, signer, nil),
		Tags:       tags.NewManager(store.NewSQLUnitOfWork(db), nil),
		DB:         db,
	})
	return &testEnv{DB: db, Router: router, UserStore: us, TokenStore: ts, Signer: signer}
}

// seedUser creates a user and returns the user record.
func seedUser(t *testing.T, env *testEnv, email string) *store.User {
	t.Helper()
	u, err := env.UserStore.EnsureByEmail(context.Background(), email, "Test User")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedToken creates a real API token for a user and returns the plaintext Bearer value.
func seedToken(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	_, err = env.TokenStore.Create(context.Background(), userID, "test-token", hash, nil)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	return plaintext
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}
