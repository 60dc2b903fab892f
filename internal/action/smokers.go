package action

import (
	"context"
	"net/http"

	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/store"
	"go.uber.org/zap"
)

// GetSmokers replaces Smokers with the server's list
func (a *Actions) GetSmokers(ctx context.Context) ([]model.User, error) {
	return fetchAll(ctx, a, smokers, smokers.path)
}

// GetSmoker fetches one smoker and refreshes its entry in Smokers if present
func (a *Actions) GetSmoker(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	if err := a.api.Do(ctx, http.MethodGet, smokers.itemPath(id), nil, &user); err != nil {
		return user, a.fail("get smoker", err, zap.Int64("id", id))
	}
	err := a.store.Update(func(s store.State) store.Patch {
		return smokers.patch(store.ReplaceByID(s.Smokers, id, user))
	})
	if err != nil {
		return user, a.fail("get smoker", err, zap.Int64("id", id))
	}
	return user, nil
}

// CreateSmoker creates a smoker and appends it to Smokers
func (a *Actions) CreateSmoker(ctx context.Context, data model.User) (model.User, error) {
	return createOne(ctx, a, smokers, data)
}

// UpdateSmoker sends only the given fields and replaces the stored smoker
func (a *Actions) UpdateSmoker(ctx context.Context, id int64, changes model.Fields) (model.User, error) {
	return updateOne(ctx, a, smokers, id, changes)
}

// DeleteSmoker deletes a smoker and removes it from Smokers
func (a *Actions) DeleteSmoker(ctx context.Context, id int64) error {
	return deleteOne(ctx, a, smokers, id)
}
