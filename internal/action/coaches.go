package action

import (
	"context"
	"net/http"

	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/store"
	"go.uber.org/zap"
)

func (a *Actions) GetCoaches(ctx context.Context) ([]model.CoachProfile, error) {
	return fetchAll(ctx, a, coaches, coaches.path)
}

// GetCoach fetches one coach into SelectedCoach
func (a *Actions) GetCoach(ctx context.Context, id int64) (model.CoachProfile, error) {
	var coach model.CoachProfile
	if err := a.api.Do(ctx, http.MethodGet, coaches.itemPath(id), nil, &coach); err != nil {
		return coach, a.fail("get coach", err, zap.Int64("id", id))
	}
	if err := a.store.Patch(store.Patch{SelectedCoach: store.Set(&coach)}); err != nil {
		return coach, a.fail("get coach", err, zap.Int64("id", id))
	}
	return coach, nil
}

func (a *Actions) CreateCoach(ctx context.Context, data model.CoachProfile) (model.CoachProfile, error) {
	return createOne(ctx, a, coaches, data)
}

func (a *Actions) UpdateCoach(ctx context.Context, id int64, changes model.Fields) (model.CoachProfile, error) {
	return updateOne(ctx, a, coaches, id, changes)
}

func (a *Actions) DeleteCoach(ctx context.Context, id int64) error {
	return deleteOne(ctx, a, coaches, id)
}
