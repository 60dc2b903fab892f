package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

const tokenKey = "token"

// ErrTokenNotFound is returned when no token has been saved
var ErrTokenNotFound = errors.New("token not found")

// TokenRepo persists the session token between runs
type TokenRepo interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type tokenRepo struct {
	db *sqlx.DB
}

// NewTokenRepo creates a TokenRepo over the client_kv table
func NewTokenRepo(db *sqlx.DB) TokenRepo {
	return &tokenRepo{db: db}
}

// Load returns the saved token
func (r *tokenRepo) Load(ctx context.Context) (string, error) {
	var token string
	err := r.db.GetContext(ctx, &token, r.db.Rebind(`SELECT value FROM client_kv WHERE key = ?`), tokenKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

// Save stores the token, replacing any previous one
func (r *tokenRepo) Save(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO client_kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`), tokenKey, token)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Clear removes the saved token. Clearing when nothing is saved is not an error.
func (r *tokenRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM client_kv WHERE key = ?`), tokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

type memoryTokenRepo struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemoryTokenRepo creates a TokenRepo that lives for the process only
func NewMemoryTokenRepo() TokenRepo {
	return &memoryTokenRepo{}
}

func (r *memoryTokenRepo) Load(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.set {
		return "", ErrTokenNotFound
	}
	return r.token, nil
}

func (r *memoryTokenRepo) Save(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token, r.set = token, true
	return nil
}

func (r *memoryTokenRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token, r.set = "", false
	return nil
}
