package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the principal that API tokens and JWTs resolve to.
type User struct {
	ID          string    `db:"id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
}

type UserStore struct {
	db Querier
}

func NewUserStore(db Querier) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// EnsureByEmail returns the user with the given email, creating it first if needed.
func (s *UserStore) EnsureByEmail(ctx context.Context, email, displayName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	u = &User{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, email, display_name, created_at) VALUES (?, ?, ?, ?)
	`), u.ID, u.Email, u.DisplayName, u.CreatedAt)
	if err != nil {
		// Race condition: another caller inserted first. Re-fetch.
		if isUniqueConstraintError(err) {
			return s.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return u, nil
}

// GetByEmail returns the user matching email, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE email = ?`), email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user matching id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
