package stub

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quitcoach/client/internal/auth"
	"github.com/quitcoach/client/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadFixtures_Default(t *testing.T) {
	fx, err := LoadFixtures("")
	require.NoError(t, err)
	assert.Contains(t, fx.ConsumptionTypes, "Cigarrillos")
	assert.NotEmpty(t, fx.Coaches)
	require.NotEmpty(t, fx.Requests)
	assert.True(t, fx.Requests[0].Answered)
}

func TestLoadFixtures_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
consumption_types: [Cigarrillos]
coaches:
  - email: a@example.com
    password: pw
    name: Ana
    price: 20.5
`), 0o600))

	fx, err := LoadFixtures(path)
	require.NoError(t, err)
	require.Len(t, fx.Coaches, 1)
	assert.Equal(t, "Ana", fx.Coaches[0].Name)
	require.NotNil(t, fx.Coaches[0].Price)
	assert.Equal(t, 20.5, *fx.Coaches[0].Price)

	_, err = LoadFixtures(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = ParseFixtures([]byte("coaches: {broken"))
	require.Error(t, err)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	backend := NewBackend()
	authService := backend.AuthService(auth.NewJWTService("test-secret", time.Hour)).WithHashCost(bcrypt.MinCost)

	fx, err := LoadFixtures("")
	require.NoError(t, err)
	require.NoError(t, backend.Seed(ctx, fx, authService))

	assert.Equal(t, len(fx.ConsumptionTypes), backend.ConsumptionTypes.Len())
	assert.Equal(t, len(fx.Coaches), backend.Coaches.Len())
	assert.Equal(t, len(fx.Requests), backend.Requests.Len())

	smoker, ok := backend.Smokers.Get(1)
	require.True(t, ok)
	assert.NotEqual(t, fx.Smokers[0].Password, smoker.Password, "password stored hashed")
	assert.Equal(t, "Cigarrillos", model.Deref(backend.ConsumptionTypeName(smoker.ConsumptionTypeID)))

	_, token, err := authService.LoginSmoker(ctx, model.Credentials{Email: fx.Smokers[0].Email, Password: fx.Smokers[0].Password})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// the last default coach has no profile yet
	last, ok := backend.Coaches.Get(int64(len(fx.Coaches)))
	require.True(t, ok)
	assert.False(t, last.Complete())

	assert.Error(t, backend.Seed(ctx, fx, authService), "seeding the same accounts twice conflicts")
}

func TestConsumptionTypeName(t *testing.T) {
	backend := NewBackend()
	assert.Nil(t, backend.ConsumptionTypeName(nil))
	assert.Nil(t, backend.ConsumptionTypeName(model.Ptr(int64(3))))
}
