package action

import (
	"context"

	"github.com/quitcoach/client/internal/model"
)

func (a *Actions) GetConsumptionTypes(ctx context.Context) ([]model.ConsumptionType, error) {
	return fetchAll(ctx, a, consumptionTypes, consumptionTypes.path)
}

func (a *Actions) CreateConsumptionType(ctx context.Context, data model.ConsumptionType) (model.ConsumptionType, error) {
	return createOne(ctx, a, consumptionTypes, data)
}

func (a *Actions) UpdateConsumptionType(ctx context.Context, id int64, changes model.Fields) (model.ConsumptionType, error) {
	return updateOne(ctx, a, consumptionTypes, id, changes)
}

func (a *Actions) DeleteConsumptionType(ctx context.Context, id int64) error {
	return deleteOne(ctx, a, consumptionTypes, id)
}
