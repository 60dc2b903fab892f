package action

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/quitcoach/client/internal/apiclient"
	"github.com/quitcoach/client/internal/auth"
	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/repo"
	"github.com/quitcoach/client/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LoginSmoker authenticates a smoker. On success the token is persisted and
// installed, and Session and LoggedInUser describe the smoker.
func (a *Actions) LoginSmoker(ctx context.Context, creds model.Credentials) (model.AuthSession, error) {
	const action = "login smoker"

	var resp model.SmokerLogin
	if err := a.api.Do(ctx, http.MethodPost, "/login", creds, &resp); err != nil {
		return model.AuthSession{}, a.fail(action, err)
	}
	if err := a.installToken(ctx, resp.Token); err != nil {
		return model.AuthSession{}, a.fail(action, err)
	}

	session := model.AuthSession{
		IsAuthenticated: true,
		Role:            model.RoleSmoker,
		UserID:          resp.ID,
		Name:            model.Deref(resp.Name),
		CigaretteCount:  resp.CigaretteCount,
		Periodicity:     model.Deref(resp.Periodicity),
		ConsumptionType: model.Deref(resp.ConsumptionType),
		Photo:           model.Deref(resp.Photo),
		Token:           resp.Token,
		ExpiresAt:       expiry(resp.Token),
	}
	user := &model.User{
		ID:             resp.ID,
		Name:           resp.Name,
		CigaretteCount: resp.CigaretteCount,
		Periodicity:    resp.Periodicity,
		Photo:          resp.Photo,
		Token:          resp.Token,
	}

	if err := a.store.Patch(store.Patch{Session: store.Set(session), LoggedInUser: store.Set(user)}); err != nil {
		return model.AuthSession{}, a.fail(action, err)
	}
	a.logger.Info("smoker logged in", zap.Int64("user_id", resp.ID))
	return session, nil
}

// LoginCoach authenticates a coach. On success the token is persisted and
// installed, and Session describes the coach.
func (a *Actions) LoginCoach(ctx context.Context, creds model.CoachCredentials) (model.AuthSession, error) {
	const action = "login coach"

	var resp model.CoachLogin
	if err := a.api.Do(ctx, http.MethodPost, "/login-coach", creds, &resp); err != nil {
		return model.AuthSession{}, a.fail(action, err)
	}
	if err := a.installToken(ctx, resp.Token); err != nil {
		return model.AuthSession{}, a.fail(action, err)
	}

	session := model.AuthSession{
		IsAuthenticated: true,
		Role:            model.RoleCoach,
		CoachID:         resp.CoachID,
		Name:            model.Deref(resp.Name),
		Gender:          model.Deref(resp.Gender),
		Photo:           model.Deref(resp.Photo),
		Token:           resp.Token,
		ExpiresAt:       expiry(resp.Token),
	}

	err := a.store.Patch(store.Patch{
		Session:      store.Set(session),
		LoggedInUser: store.Set[*model.User](nil),
	})
	if err != nil {
		return model.AuthSession{}, a.fail(action, err)
	}
	a.logger.Info("coach logged in", zap.Int64("coach_id", resp.CoachID))
	return session, nil
}

// installToken persists the token before the client starts sending it
func (a *Actions) installToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	if err := a.tokens.Save(ctx, token); err != nil {
		return err
	}
	a.api.SetToken(token)
	return nil
}

// RestoreSession rebuilds Session from the persisted token. A missing or
// expired token yields an unauthenticated session and no error. A token whose
// claims cannot be read is kept and installed as is; CheckSession tells
// whether the server accepts it.
func (a *Actions) RestoreSession(ctx context.Context) (model.AuthSession, error) {
	const action = "restore session"

	token, err := a.tokens.Load(ctx)
	if err != nil && !errors.Is(err, repo.ErrTokenNotFound) {
		return model.AuthSession{}, a.fail(action, err)
	}

	session := a.sessionFromToken(ctx, token)
	if session.IsAuthenticated {
		a.api.SetToken(token)
	}
	if err := a.store.Patch(store.Patch{Session: store.Set(session)}); err != nil {
		return model.AuthSession{}, a.fail(action, err)
	}
	return session, nil
}

func (a *Actions) sessionFromToken(ctx context.Context, token string) model.AuthSession {
	if token == "" {
		return model.AuthSession{}
	}

	session := model.AuthSession{IsAuthenticated: true, Token: token}

	claims, err := auth.ParseUnverified(token)
	if err != nil {
		a.logger.Info("restoring token without readable claims", zap.Error(err))
		return session
	}
	if claims.Expired(a.now()) {
		a.logger.Info("persisted token expired", zap.Time("expires_at", claims.ExpiresAt.Time))
		a.discardToken(ctx)
		return model.AuthSession{}
	}

	session.Role = claims.Role
	session.ExpiresAt = expiry(token)

	id, err := claims.AccountID()
	if err != nil {
		a.logger.Info("token subject is not an account id", zap.Error(err))
		return session
	}
	if claims.Role == model.RoleCoach {
		session.CoachID = id
	} else {
		session.UserID = id
	}
	return session
}

func (a *Actions) discardToken(ctx context.Context) {
	if err := a.tokens.Clear(ctx); err != nil {
		a.logger.Warn("failed to clear token", zap.Error(err))
	}
}

// Logout forgets the token and resets Session and LoggedInUser
func (a *Actions) Logout(ctx context.Context) error {
	if err := a.tokens.Clear(ctx); err != nil {
		return a.fail("logout", err)
	}
	a.api.SetToken("")

	err := a.store.Patch(store.Patch{
		Session:      store.Set(model.AuthSession{}),
		LoggedInUser: store.Set[*model.User](nil),
	})
	if err != nil {
		return a.fail("logout", err)
	}
	return nil
}

// CheckSession asks the server whether it still accepts the token. A
// rejected token reports false without error and does not log out.
func (a *Actions) CheckSession(ctx context.Context) (bool, error) {
	var resp struct {
		LoggedInAs string `json:"logged_in_as"`
	}
	err := a.api.Do(ctx, http.MethodGet, "/protected", nil, &resp)
	if apiclient.IsUnauthorized(err) {
		return false, nil
	}
	if err != nil {
		return false, a.fail("check session", err)
	}
	return true, nil
}

// Initialize restores the session and loads smokers, coaches, consumption
// types and requests in parallel. Fetches that fail leave their field as is;
// the first error is returned.
func (a *Actions) Initialize(ctx context.Context) error {
	_, restoreErr := a.RestoreSession(ctx)

	var g errgroup.Group
	g.Go(func() error { _, err := a.GetSmokers(ctx); return err })
	g.Go(func() error { _, err := a.GetCoaches(ctx); return err })
	g.Go(func() error { _, err := a.GetConsumptionTypes(ctx); return err })
	g.Go(func() error { _, err := a.GetRequests(ctx); return err })
	fetchErr := g.Wait()

	if restoreErr != nil {
		return restoreErr
	}
	return fetchErr
}

// expiry returns the exp claim of a token, or the zero time
func expiry(token string) time.Time {
	claims, err := auth.ParseUnverified(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
