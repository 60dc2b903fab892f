package auth

import (
	"context"
	"testing"
	"time"

	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() (*AuthService, *JWTService) {
	jwtService := NewJWTService("test-secret", time.Hour)
	svc := NewAuthService(
		jwtService,
		repo.NewSmokerRepo(repo.NewTable[model.User]()),
		repo.NewCoachRepo(repo.NewTable[model.CoachProfile]()),
	).WithHashCost(bcrypt.MinCost)
	return svc, jwtService
}

func TestAuthService_Smoker(t *testing.T) {
	ctx := context.Background()
	svc, jwtService := newTestService()

	t.Run("A_SignupReturnsTokenWithoutPassword", func(t *testing.T) {
		user, err := svc.SignupSmoker(ctx, model.User{
			Email:    "ana@example.com",
			Password: "hunter2",
			Name:     model.Ptr("Ana"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Empty(t, user.Password)
		require.NotEmpty(t, user.Token)

		claims, err := jwtService.VerifyToken(user.Token)
		require.NoError(t, err)
		assert.Equal(t, model.RoleSmoker, claims.Role)
		assert.Equal(t, "1", claims.Subject)
	})

	t.Run("B_SignupDuplicateEmail", func(t *testing.T) {
		_, err := svc.SignupSmoker(ctx, model.User{Email: "ana@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("C_SignupMissingCredentials", func(t *testing.T) {
		_, err := svc.SignupSmoker(ctx, model.User{Email: " "})
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("D_LoginSuccess", func(t *testing.T) {
		user, token, err := svc.LoginSmoker(ctx, model.Credentials{Email: "ana@example.com", Password: "hunter2"})
		require.NoError(t, err)
		assert.Equal(t, "Ana", model.Deref(user.Name))
		assert.Empty(t, user.Password)
		assert.NotEmpty(t, token)
	})

	t.Run("E_LoginWrongPassword", func(t *testing.T) {
		_, _, err := svc.LoginSmoker(ctx, model.Credentials{Email: "ana@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("F_LoginUnknownEmail", func(t *testing.T) {
		_, _, err := svc.LoginSmoker(ctx, model.Credentials{Email: "who@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Coach(t *testing.T) {
	ctx := context.Background()
	svc, jwtService := newTestService()

	coach, err := svc.SignupCoach(ctx, model.CoachProfile{
		Email:    "coach@example.com",
		Password: "pw",
		Photo:    model.Ptr("https://img.example/c.png"),
	})
	require.NoError(t, err)
	assert.Empty(t, coach.Password)
	assert.Equal(t, "https://img.example/c.png", model.Deref(coach.Photo))

	claims, err := jwtService.VerifyToken(coach.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCoach, claims.Role)

	logged, token, err := svc.LoginCoach(ctx, model.CoachCredentials{Email: "coach@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, coach.ID, logged.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.LoginCoach(ctx, model.CoachCredentials{Email: "coach@example.com", Password: "bad"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.LoginCoach(ctx, model.CoachCredentials{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
