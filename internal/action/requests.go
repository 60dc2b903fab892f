package action

import (
	"context"

	"github.com/quitcoach/client/internal/model"
)

func (a *Actions) GetRequests(ctx context.Context) ([]model.CoachRequest, error) {
	return fetchAll(ctx, a, requests, requests.path)
}

// AddRequest submits a coaching request and appends it to Requests
func (a *Actions) AddRequest(ctx context.Context, data model.CoachRequest) (model.CoachRequest, error) {
	return createOne(ctx, a, requests, data)
}

// UpdateRequest changes a request, e.g. when the coach answers it
func (a *Actions) UpdateRequest(ctx context.Context, id int64, changes model.Fields) (model.CoachRequest, error) {
	return updateOne(ctx, a, requests, id, changes)
}

func (a *Actions) DeleteRequest(ctx context.Context, id int64) error {
	return deleteOne(ctx, a, requests, id)
}
