package action

import (
	"context"
	"net/url"
	"strconv"

	"github.com/quitcoach/client/internal/model"
)

// GetFollowUps replaces FollowUps with the records of one user
func (a *Actions) GetFollowUps(ctx context.Context, userID int64) ([]model.FollowUpRecord, error) {
	query := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	return fetchAll(ctx, a, followUps, followUps.path+"?"+query.Encode())
}

func (a *Actions) CreateFollowUp(ctx context.Context, data model.FollowUpRecord) (model.FollowUpRecord, error) {
	return createOne(ctx, a, followUps, data)
}

func (a *Actions) UpdateFollowUp(ctx context.Context, id int64, changes model.Fields) (model.FollowUpRecord, error) {
	return updateOne(ctx, a, followUps, id, changes)
}

func (a *Actions) DeleteFollowUp(ctx context.Context, id int64) error {
	return deleteOne(ctx, a, followUps, id)
}
