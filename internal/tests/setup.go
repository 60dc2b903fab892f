// Package tests holds end-to-end tests that drive the action layer against an
// in-process stub API with a real token database.
package tests

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/quitcoach/client/internal/action"
	"github.com/quitcoach/client/internal/apiclient"
	"github.com/quitcoach/client/internal/auth"
	"github.com/quitcoach/client/internal/db"
	apihttp "github.com/quitcoach/client/internal/http"
	"github.com/quitcoach/client/internal/http/handlers"
	"github.com/quitcoach/client/internal/middleware"
	"github.com/quitcoach/client/internal/offer"
	"github.com/quitcoach/client/internal/repo"
	"github.com/quitcoach/client/internal/store"
	"github.com/quitcoach/client/internal/stub"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

const uploadPreset = "coach_profiles"

// TokenDSN returns TEST_TOKEN_DSN when set (e.g. a postgres URL), otherwise
// a sqlite file under dir.
func TokenDSN(dir string) string {
	if dsn := os.Getenv("TEST_TOKEN_DSN"); dsn != "" {
		return dsn
	}
	return "file:" + filepath.Join(dir, "tokens.db")
}

// Harness is a seeded stub API plus the token database a client persists to
type Harness struct {
	Server  *httptest.Server
	Backend *stub.Backend
	DSN     string
	Logger  *zap.Logger
}

// Client is one client process: its own store, API client and token repo
type Client struct {
	API       *apiclient.Client
	Store     *store.Store
	Actions   *action.Actions
	Submitter *offer.Submitter
}

// NewHarness starts the stub API with the default fixtures and clears the
// token database.
func NewHarness(t *testing.T) *Harness {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	backend := stub.NewBackend()
	jwtService := auth.NewJWTService("e2e-secret", time.Hour)
	authService := backend.AuthService(jwtService).WithHashCost(bcrypt.MinCost)

	fx, err := stub.LoadFixtures("")
	require.NoError(t, err)
	require.NoError(t, backend.Seed(ctx, fx, authService))

	router, err := apihttp.NewRouter(apihttp.RouterConfig{
		Backend:      backend,
		AuthService:  authService,
		JWTService:   jwtService,
		Images:       handlers.NewImageHandler("http://images.e2e", uploadPreset, logger),
		LoginLimiter: middleware.NewRateLimiter(time.Minute, 20),
		Logger:       logger,
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	h := &Harness{Server: server, Backend: backend, DSN: TokenDSN(t.TempDir()), Logger: logger}
	h.ClearTokens(t)
	return h
}

// OpenTokenDB opens the token database, running migrations
func (h *Harness) OpenTokenDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.Open(context.Background(), h.DSN, h.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// ClearTokens removes any persisted token for a clean test state
func (h *Harness) ClearTokens(t *testing.T) {
	t.Helper()
	require.NoError(t, repo.NewTokenRepo(h.OpenTokenDB(t)).Clear(context.Background()))
}

// NewClient starts a fresh client with an empty store, as after a restart
func (h *Harness) NewClient(t *testing.T) *Client {
	t.Helper()

	api, err := apiclient.New(apiclient.Config{
		BaseURL:        h.Server.URL + "/api",
		ImageUploadURL: h.Server.URL + "/image/upload",
		UploadPreset:   uploadPreset,
	})
	require.NoError(t, err)

	st := store.New()
	actions := action.New(action.Deps{
		API:    api,
		Store:  st,
		Tokens: repo.NewTokenRepo(h.OpenTokenDB(t)),
		Logger: h.Logger,
	})
	return &Client{
		API:       api,
		Store:     st,
		Actions:   actions,
		Submitter: offer.NewSubmitter(actions, h.Logger, nil),
	}
}
