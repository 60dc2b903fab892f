package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quitcoach/client/internal/auth"
	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/stub"
	"go.uber.org/zap"
)

// Resources bundles the CRUD handlers of every stub table
type Resources struct {
	Smokers          *Resource[model.User]
	Coaches          *Resource[model.CoachProfile]
	ConsumptionTypes *Resource[model.ConsumptionType]
	FollowUps        *Resource[model.FollowUpRecord]
	Requests         *Resource[model.CoachRequest]
}

// NewResources wires the CRUD handlers to the backend tables
func NewResources(backend *stub.Backend, authService *auth.AuthService, logger *zap.Logger) *Resources {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now

	return &Resources{
		Smokers: &Resource[model.User]{
			Table:    backend.Smokers,
			NotFound: "Usuario no encontrado",
			Deleted:  "Usuario eliminado correctamente",
			Required: func(u model.User) bool {
				return strings.TrimSpace(u.Email) != "" && u.Password != ""
			},
			Conflict: func(existing, incoming model.User) bool {
				return strings.EqualFold(existing.Email, incoming.Email)
			},
			ConflictMsg: "El email ya está en uso",
			Prepare: func(existing *model.User, incoming model.User) (model.User, error) {
				incoming.Token = ""
				if existing != nil && incoming.Password == existing.Password {
					return incoming, nil
				}
				hash, err := authService.HashPassword(incoming.Password)
				if err != nil {
					return incoming, err
				}
				incoming.Password = hash
				return incoming, nil
			},
			Logger: logger.With(zap.String("resource", "smokers")),
		},
		Coaches: &Resource[model.CoachProfile]{
			Table:    backend.Coaches,
			NotFound: "Coach no encontrado",
			Deleted:  "Coach eliminado correctamente",
			Required: func(c model.CoachProfile) bool {
				return strings.TrimSpace(c.Email) != "" && c.Password != ""
			},
			Conflict: func(existing, incoming model.CoachProfile) bool {
				return strings.EqualFold(existing.Email, incoming.Email)
			},
			ConflictMsg: "El email ya está en uso",
			Prepare: func(existing *model.CoachProfile, incoming model.CoachProfile) (model.CoachProfile, error) {
				incoming.Token = ""
				if existing != nil && incoming.Password == existing.Password {
					return incoming, nil
				}
				hash, err := authService.HashPassword(incoming.Password)
				if err != nil {
					return incoming, err
				}
				incoming.Password = hash
				return incoming, nil
			},
			Logger: logger.With(zap.String("resource", "coaches")),
		},
		ConsumptionTypes: &Resource[model.ConsumptionType]{
			Table:    backend.ConsumptionTypes,
			NotFound: "Tipo de consumo no encontrado",
			Deleted:  "consumo eliminado correctamente",
			Required: func(t model.ConsumptionType) bool { return strings.TrimSpace(t.Name) != "" },
			Logger:   logger.With(zap.String("resource", "tiposconsumo")),
		},
		FollowUps: &Resource[model.FollowUpRecord]{
			Table:    backend.FollowUps,
			NotFound: "Seguimiento no encontrado",
			Deleted:  "Seguimiento eliminado correctamente",
			Required: func(f model.FollowUpRecord) bool { return f.UserID != 0 },
			Prepare: func(existing *model.FollowUpRecord, incoming model.FollowUpRecord) (model.FollowUpRecord, error) {
				if incoming.RecordedAt == nil {
					t := now().UTC()
					incoming.RecordedAt = &t
				}
				return incoming, nil
			},
			Filter: userFilter(func(f model.FollowUpRecord) int64 { return f.UserID }),
			Logger: logger.With(zap.String("resource", "seguimiento")),
		},
		Requests: &Resource[model.CoachRequest]{
			Table:    backend.Requests,
			NotFound: "Solicitud no encontrada",
			Deleted:  "Solicitud eliminada correctamente",
			Required: func(r model.CoachRequest) bool { return r.UserID != 0 && r.CoachID != 0 },
			Filter:   userFilter(func(r model.CoachRequest) int64 { return r.UserID }),
			Logger:   logger.With(zap.String("resource", "solicitudes")),
		},
	}
}

// userFilter keeps rows of ?user_id= when the parameter is given
func userFilter[T any](userOf func(T) int64) func(*http.Request) (func(T) bool, error) {
	return func(r *http.Request) (func(T) bool, error) {
		raw := r.URL.Query().Get("user_id")
		if raw == "" {
			return nil, nil
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user_id %q", raw)
		}
		return func(row T) bool { return userOf(row) == userID }, nil
	}
}
