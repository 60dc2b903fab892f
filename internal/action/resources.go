package action

import (
	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/store"
)

var (
	smokers = resource[model.User]{
		name:  "smokers",
		path:  "/smokers",
		get:   func(s store.State) []model.User { return s.Smokers },
		patch: func(l []model.User) store.Patch { return store.Patch{Smokers: store.Set(l)} },
	}
	coaches = resource[model.CoachProfile]{
		name:  "coaches",
		path:  "/coaches",
		get:   func(s store.State) []model.CoachProfile { return s.Coaches },
		patch: func(l []model.CoachProfile) store.Patch { return store.Patch{Coaches: store.Set(l)} },
	}
	consumptionTypes = resource[model.ConsumptionType]{
		name:  "consumption types",
		path:  "/tiposconsumo",
		get:   func(s store.State) []model.ConsumptionType { return s.ConsumptionTypes },
		patch: func(l []model.ConsumptionType) store.Patch { return store.Patch{ConsumptionTypes: store.Set(l)} },
	}
	followUps = resource[model.FollowUpRecord]{
		name:  "follow-ups",
		path:  "/seguimiento",
		get:   func(s store.State) []model.FollowUpRecord { return s.FollowUps },
		patch: func(l []model.FollowUpRecord) store.Patch { return store.Patch{FollowUps: store.Set(l)} },
	}
	requests = resource[model.CoachRequest]{
		name:  "requests",
		path:  "/solicitudes",
		get:   func(s store.State) []model.CoachRequest { return s.Requests },
		patch: func(l []model.CoachRequest) store.Patch { return store.Patch{Requests: store.Set(l)} },
	}
)
