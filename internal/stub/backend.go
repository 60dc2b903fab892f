// Package stub holds the in-memory data of the development API server.
package stub

import (
	"github.com/quitcoach/client/internal/auth"
	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/repo"
)

// Backend groups the tables served by the stub API
type Backend struct {
	Smokers          *repo.Table[model.User]
	Coaches          *repo.Table[model.CoachProfile]
	ConsumptionTypes *repo.Table[model.ConsumptionType]
	FollowUps        *repo.Table[model.FollowUpRecord]
	Requests         *repo.Table[model.CoachRequest]
}

// NewBackend creates a backend with empty tables
func NewBackend() *Backend {
	return &Backend{
		Smokers:          repo.NewTable[model.User](),
		Coaches:          repo.NewTable[model.CoachProfile](),
		ConsumptionTypes: repo.NewTable[model.ConsumptionType](),
		FollowUps:        repo.NewTable[model.FollowUpRecord](),
		Requests:         repo.NewTable[model.CoachRequest](),
	}
}

// ConsumptionTypeName returns the label of a consumption type, or nil
func (b *Backend) ConsumptionTypeName(id *int64) *string {
	if id == nil {
		return nil
	}
	t, ok := b.ConsumptionTypes.Get(*id)
	if !ok {
		return nil
	}
	return model.Ptr(t.Name)
}

// AuthService returns an auth service over the backend's account tables
func (b *Backend) AuthService(jwtService *auth.JWTService) *auth.AuthService {
	return auth.NewAuthService(jwtService, repo.NewSmokerRepo(b.Smokers), repo.NewCoachRepo(b.Coaches))
}
