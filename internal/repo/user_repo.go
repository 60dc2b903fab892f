package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quitcoach/client/internal/model"
)

var (
	// ErrNotFound is returned when no account matches
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when an account with the email already exists
	ErrEmailTaken = errors.New("email already in use")
)

// SmokerRepo defines the interface for smoker account operations
type SmokerRepo interface {
	GetByID(ctx context.Context, id int64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, user model.User) (model.User, error)
}

type smokerRepo struct {
	table *Table[model.User]
}

// NewSmokerRepo creates a SmokerRepo over the given table
func NewSmokerRepo(table *Table[model.User]) SmokerRepo {
	return &smokerRepo{table: table}
}

// GetByID retrieves a smoker by ID
func (r *smokerRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	user, ok := r.table.Get(id)
	if !ok {
		return model.User{}, fmt.Errorf("smoker %d: %w", id, ErrNotFound)
	}
	return user, nil
}

// GetByEmail retrieves a smoker by email (case-insensitive)
func (r *smokerRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	user, ok := r.table.Find(func(u model.User) bool {
		return strings.EqualFold(u.Email, email)
	})
	if !ok {
		return model.User{}, fmt.Errorf("smoker %q: %w", email, ErrNotFound)
	}
	return user, nil
}

// Create inserts a smoker unless the email is already used
func (r *smokerRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	created, ok := r.table.InsertUnique(user, func(existing model.User) bool {
		return strings.EqualFold(existing.Email, user.Email)
	})
	if !ok {
		return model.User{}, fmt.Errorf("smoker %q: %w", user.Email, ErrEmailTaken)
	}
	return created, nil
}
