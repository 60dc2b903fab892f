package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/quitcoach/client/internal/model"
)

// CoachRepo defines the interface for coach account operations
type CoachRepo interface {
	GetByID(ctx context.Context, id int64) (model.CoachProfile, error)
	GetByEmail(ctx context.Context, email string) (model.CoachProfile, error)
	Create(ctx context.Context, coach model.CoachProfile) (model.CoachProfile, error)
}

type coachRepo struct {
	table *Table[model.CoachProfile]
}

// NewCoachRepo creates a CoachRepo over the given table
func NewCoachRepo(table *Table[model.CoachProfile]) CoachRepo {
	return &coachRepo{table: table}
}

func (r *coachRepo) GetByID(ctx context.Context, id int64) (model.CoachProfile, error) {
	coach, ok := r.table.Get(id)
	if !ok {
		return model.CoachProfile{}, fmt.Errorf("coach %d: %w", id, ErrNotFound)
	}
	return coach, nil
}

func (r *coachRepo) GetByEmail(ctx context.Context, email string) (model.CoachProfile, error) {
	coach, ok := r.table.Find(func(c model.CoachProfile) bool {
		return strings.EqualFold(c.Email, email)
	})
	if !ok {
		return model.CoachProfile{}, fmt.Errorf("coach %q: %w", email, ErrNotFound)
	}
	return coach, nil
}

func (r *coachRepo) Create(ctx context.Context, coach model.CoachProfile) (model.CoachProfile, error) {
	created, ok := r.table.InsertUnique(coach, func(existing model.CoachProfile) bool {
		return strings.EqualFold(existing.Email, coach.Email)
	})
	if !ok {
		return model.CoachProfile{}, fmt.Errorf("coach %q: %w", coach.Email, ErrEmailTaken)
	}
	return created, nil
}
