package action

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/store"
	"go.uber.org/zap"
)

// SignupSmoker creates the account, then records the initial consumption as
// a follow-up. A failed follow-up is logged only; the result reflects the
// account alone.
func (a *Actions) SignupSmoker(ctx context.Context, data model.SmokerSignup) (model.User, error) {
	const action = "signup smoker"

	var created model.User
	if err := a.api.Do(ctx, http.MethodPost, "/signup", data, &created); err != nil {
		return model.User{}, a.fail(action, err)
	}
	if created.ID == 0 {
		return model.User{}, a.fail(action, missingID(http.MethodPost, "/signup"))
	}

	session := smokerSession(created)
	err := a.store.Update(func(s store.State) store.Patch {
		p := store.Patch{Smokers: store.Set(store.Append(s.Smokers, created))}
		if session.IsAuthenticated {
			user := created
			p.Session = store.Set(session)
			p.LoggedInUser = store.Set(&user)
		}
		return p
	})
	if err != nil {
		return model.User{}, a.fail(action, err)
	}
	a.keepToken(ctx, action, created.Token)

	a.recordInitialConsumption(ctx, created.ID, data)
	return created, nil
}

func (a *Actions) recordInitialConsumption(ctx context.Context, userID int64, data model.SmokerSignup) {
	record := model.FollowUpRecord{
		UserID:            userID,
		ConsumptionTypeID: data.ConsumptionTypeID,
		Quantity:          data.Quantity,
	}

	var created model.FollowUpRecord
	if err := a.api.Do(ctx, http.MethodPost, followUps.path, record, &created); err != nil {
		a.logger.Warn("initial follow-up not recorded", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if created.ID == 0 {
		a.logger.Warn("initial follow-up recorded without id", zap.Int64("user_id", userID), zap.Error(ErrNoID))
		return
	}
	err := a.store.Update(func(s store.State) store.Patch {
		return store.Patch{FollowUps: store.Set(store.Append(s.FollowUps, created))}
	})
	if err != nil {
		a.logger.Warn("initial follow-up not stored", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// SignupCoach uploads the profile image, then creates the coach with the
// image URL as foto_coach. The profile is never created without an image.
func (a *Actions) SignupCoach(ctx context.Context, data model.CoachProfile, filename string, image io.Reader) (model.CoachProfile, error) {
	const action = "signup coach"

	url, err := a.api.UploadImage(ctx, filename, image)
	if err != nil {
		return model.CoachProfile{}, a.fail(action, fmt.Errorf("%w: %w", ErrImageUpload, err))
	}
	data.Photo = &url

	var created model.CoachProfile
	if err := a.api.Do(ctx, http.MethodPost, "/signup-coach", data, &created); err != nil {
		return model.CoachProfile{}, a.fail(action, err)
	}
	if created.ID == 0 {
		return model.CoachProfile{}, a.fail(action, missingID(http.MethodPost, "/signup-coach"))
	}

	session := coachSession(created)
	err = a.store.Update(func(s store.State) store.Patch {
		p := store.Patch{Coaches: store.Set(store.Append(s.Coaches, created))}
		if session.IsAuthenticated {
			p.Session = store.Set(session)
			p.LoggedInUser = store.Set[*model.User](nil)
		}
		return p
	})
	if err != nil {
		return model.CoachProfile{}, a.fail(action, err)
	}
	a.keepToken(ctx, action, created.Token)

	return created, nil
}

// keepToken persists and installs a signup token. Persisting is best effort.
func (a *Actions) keepToken(ctx context.Context, action, token string) {
	if token == "" {
		return
	}
	a.api.SetToken(token)
	if err := a.tokens.Save(ctx, token); err != nil {
		a.logger.Warn("token not persisted", zap.String("action", action), zap.Error(err))
	}
}

func smokerSession(u model.User) model.AuthSession {
	if u.Token == "" {
		return model.AuthSession{}
	}
	return model.AuthSession{
		IsAuthenticated: true,
		Role:            model.RoleSmoker,
		UserID:          u.ID,
		Name:            model.Deref(u.Name),
		CigaretteCount:  u.CigaretteCount,
		Periodicity:     model.Deref(u.Periodicity),
		Photo:           model.Deref(u.Photo),
		Token:           u.Token,
		ExpiresAt:       expiry(u.Token),
	}
}

func coachSession(c model.CoachProfile) model.AuthSession {
	if c.Token == "" {
		return model.AuthSession{}
	}
	return model.AuthSession{
		IsAuthenticated: true,
		Role:            model.RoleCoach,
		CoachID:         c.ID,
		Name:            model.Deref(c.Name),
		Gender:          model.Deref(c.Gender),
		Photo:           model.Deref(c.Photo),
		Token:           c.Token,
		ExpiresAt:       expiry(c.Token),
	}
}
