package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/joestump/joe-stock/internal/store"
)

// TokenPrefix marks a bearer credential as an API token rather than a JWT.
const TokenPrefix = "js_"

const base62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// TokenRecord represents a row in the api_tokens table.
type TokenRecord struct {
	ID         string       `db:"id"`
	UserID     string       `db:"user_id"`
	Name       string       `db:"name"`
	TokenHash  string       `db:"token_hash"`
	LastUsedAt sql.NullTime `db:"last_used_at"`
	ExpiresAt  sql.NullTime `db:"expires_at"`
	CreatedAt  time.Time    `db:"created_at"`
	RevokedAt  sql.NullTime `db:"revoked_at"`
}

// Active reports whether the token may authenticate at now. It mirrors the
// predicate GetActiveByHash applies in SQL.
func (r *TokenRecord) Active(now time.Time) bool {
	if r.RevokedAt.Valid {
		return false
	}
	return !r.ExpiresAt.Valid || r.ExpiresAt.Time.After(now)
}

// TokenStore persists API tokens. Only hashes are stored.
type TokenStore interface {
	Create(ctx context.Context, userID, name, tokenHash string, expiresAt *time.Time) (*TokenRecord, error)
	GetActiveByHash(ctx context.Context, hash string, now time.Time) (*TokenRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*TokenRecord, error)
	Revoke(ctx context.Context, id, userID string) error
	UpdateLastUsed(ctx context.Context, id string) error
}

// SQLTokenStore is the sqlx-backed TokenStore. Like the repositories in
// internal/store it runs against either the pool or a transaction.
type SQLTokenStore struct {
	db store.Querier
}

func NewSQLTokenStore(db store.Querier) *SQLTokenStore {
	return &SQLTokenStore{db: db}
}

func (s *SQLTokenStore) q(query string) string { return s.db.Rebind(query) }

// Create stores tokenHash for userID. A nil expiresAt never expires. Times are
// stored in UTC so the expiry comparison in GetActiveByHash is consistent
// across drivers.
func (s *SQLTokenStore) Create(ctx context.Context, userID, name, tokenHash string, expiresAt *time.Time) (*TokenRecord, error) {
	rec := &TokenRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		TokenHash: tokenHash,
		CreatedAt: time.Now().UTC(),
	}
	if expiresAt != nil {
		rec.ExpiresAt = sql.NullTime{Time: expiresAt.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO api_tokens (id, user_id, name, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), rec.ID, rec.UserID, rec.Name, rec.TokenHash, rec.ExpiresAt, rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetActiveByHash returns the token with hash if it is neither revoked nor
// expired at now. Unknown, revoked and expired tokens all yield
// store.ErrNotFound so callers cannot tell them apart.
func (s *SQLTokenStore) GetActiveByHash(ctx context.Context, hash string, now time.Time) (*TokenRecord, error) {
	var rec TokenRecord
	err := s.db.GetContext(ctx, &rec, s.q(`
		SELECT * FROM api_tokens
		WHERE token_hash = ?
		  AND revoked_at IS NULL
		  AND (expires_at IS NULL OR expires_at > ?)
	`), hash, now.UTC())
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByUser returns the user's tokens, newest first, including revoked and
// expired ones.
func (s *SQLTokenStore) ListByUser(ctx context.Context, userID string) ([]*TokenRecord, error) {
	records := []*TokenRecord{}
	err := s.db.SelectContext(ctx, &records, s.q(`
		SELECT * FROM api_tokens WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Revoke marks an unrevoked token owned by userID as revoked. Returns
// store.ErrNotFound when no such token exists, including when it was already
// revoked.
func (s *SQLTokenStore) Revoke(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE api_tokens SET revoked_at = ?
		WHERE id = ? AND user_id = ? AND revoked_at IS NULL
	`), time.Now().UTC(), id, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *SQLTokenStore) UpdateLastUsed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.q(`UPDATE api_tokens SET last_used_at = ? WHERE id = ?`), time.Now().UTC(), id)
	return err
}

// GenerateToken returns a new plaintext API token (TokenPrefix followed by 32
// random bytes in base62) and its hash. Only the hash is stored.
func GenerateToken() (plaintext, hash string, err error) {
	b := make([]byte, 32)
	if _, err = rand.Read(b); err != nil {
		return "", "", err
	}
	plaintext = TokenPrefix + encodeBase62(b)
	return plaintext, HashToken(plaintext), nil
}

// HashToken returns the hex-encoded SHA-256 hash of a plaintext token.
func HashToken(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}

func encodeBase62(b []byte) string {
	n := new(big.Int).SetBytes(b)
	if n.Sign() == 0 {
		return "0"
	}
	base := big.NewInt(int64(len(base62)))
	mod := new(big.Int)
	out := make([]byte, 0, 44)
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		out = append(out, base62[mod.Int64()])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
