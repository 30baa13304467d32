package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joestump/joe-stock/internal/store"
)

// UserLookup resolves the user a credential belongs to.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*store.User, error)
}

// BearerTokenMiddleware authenticates API requests via Bearer token. It accepts
// API tokens and, when a signer is configured, HS256 JWTs.
type BearerTokenMiddleware struct {
	tokens TokenStore
	users  UserLookup
	jwt    *JWTSigner
	logger *slog.Logger
}

// NewBearerTokenMiddleware creates a BearerTokenMiddleware. A nil signer
// disables JWT credentials.
func NewBearerTokenMiddleware(ts TokenStore, users UserLookup, signer *JWTSigner, logger *slog.Logger) *BearerTokenMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &BearerTokenMiddleware{tokens: ts, users: users, jwt: signer, logger: logger}
}

// Authenticate rejects requests without a valid credential with 401 before
// calling next. On success the credential owner's *store.User is stored in the
// request context.
func (m *BearerTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			writeUnauthorized(w)
			return
		}
		credential := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if credential == "" {
			writeUnauthorized(w)
			return
		}

		var (
			user *store.User
			ok   bool
		)
		if strings.HasPrefix(credential, TokenPrefix) {
			user, ok = m.fromAPIToken(r.Context(), credential)
		} else if m.jwt != nil {
			user, ok = m.fromJWT(r.Context(), credential)
		}
		if !ok {
			writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (m *BearerTokenMiddleware) fromAPIToken(ctx context.Context, plaintext string) (*store.User, bool) {
	rec, err := m.tokens.GetActiveByHash(ctx, HashToken(plaintext), time.Now())
	if err != nil {
		return nil, false
	}
	user, err := m.users.GetByID(ctx, rec.UserID)
	if err != nil {
		return nil, false
	}

	// last_used_at is advisory; the request does not wait for it.
	go func(id string) {
		if err := m.tokens.UpdateLastUsed(context.Background(), id); err != nil {
			m.logger.Debug("update token last_used_at", "token_id", id, "err", err)
		}
	}(rec.ID)
	return user, true
}

func (m *BearerTokenMiddleware) fromJWT(ctx context.Context, raw string) (*store.User, bool) {
	userID, err := m.jwt.Verify(raw)
	if err != nil {
		m.logger.DebugContext(ctx, "rejected jwt", "err", err)
		return nil, false
	}
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// writeUnauthorized writes 401 {"error":"unauthorized","code":"UNAUTHORIZED"}.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "code": "UNAUTHORIZED"})
}
