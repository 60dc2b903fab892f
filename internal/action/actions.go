// Package action synchronizes the store with the remote API. Every action
// returns its error; on failure the store is left untouched and the error is
// logged once, here.
package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/quitcoach/client/internal/apiclient"
	"github.com/quitcoach/client/internal/repo"
	"github.com/quitcoach/client/internal/store"
	"go.uber.org/zap"
)

var (
	// ErrImageUpload is returned when the image host rejects an upload
	ErrImageUpload = errors.New("image upload failed")
	// ErrNoToken is returned when a login response carries no token
	ErrNoToken = errors.New("login response without token")
	// ErrNoID is returned when a write succeeded on the server but the
	// response carries no entity id. The store is left untouched; refetch
	// to see the committed entity.
	ErrNoID = errors.New("write committed but response has no id")
)

// API is the part of the remote client the actions use
type API interface {
	Do(ctx context.Context, method, path string, body, out any) error
	UploadImage(ctx context.Context, filename string, content io.Reader) (string, error)
	SetToken(token string)
}

// Deps holds the collaborators of Actions
type Deps struct {
	API    API
	Store  *store.Store
	Tokens repo.TokenRepo
	Logger *zap.Logger
	Clock  func() time.Time
}

// Actions is safe for concurrent use
type Actions struct {
	api    API
	store  *store.Store
	tokens repo.TokenRepo
	logger *zap.Logger
	now    func() time.Time
}

// New creates the action layer. A nil token repo keeps the token in memory.
func New(d Deps) *Actions {
	a := &Actions{
		api:    d.API,
		store:  d.Store,
		tokens: d.Tokens,
		logger: d.Logger,
		now:    d.Clock,
	}
	if a.tokens == nil {
		a.tokens = repo.NewMemoryTokenRepo()
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Store returns the store the actions patch
func (a *Actions) Store() *store.Store {
	return a.store
}

func (a *Actions) fail(action string, err error, fields ...zap.Field) error {
	fields = append([]zap.Field{zap.String("action", action), zap.Error(err)}, fields...)
	a.logger.Error("action failed", fields...)
	return fmt.Errorf("%s: %w", action, err)
}

// resource describes one remote collection and where it lives in the store
type resource[T store.Identifiable] struct {
	name  string
	path  string
	get   func(store.State) []T
	patch func([]T) store.Patch
}

func (r resource[T]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// fetchAll replaces the whole collection with the server's
func fetchAll[T store.Identifiable](ctx context.Context, a *Actions, res resource[T], path string) ([]T, error) {
	action := "get " + res.name
	var items []T
	if err := a.api.Do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, a.fail(action, err)
	}
	if err := a.store.Patch(res.patch(items)); err != nil {
		return nil, a.fail(action, err)
	}
	return items, nil
}

// missingID reports a 2xx write response without an entity id as a decode
// failure wrapping ErrNoID
func missingID(method, path string) error {
	return &apiclient.Error{Kind: apiclient.KindDecode, Method: method, Path: path, Err: ErrNoID}
}

// createOne appends the created entity. A 2xx response without an id fails
// with ErrNoID even though the server committed the write.
func createOne[T store.Identifiable](ctx context.Context, a *Actions, res resource[T], in any) (T, error) {
	action := "create " + res.name
	var created T
	if err := a.api.Do(ctx, http.MethodPost, res.path, in, &created); err != nil {
		return created, a.fail(action, err)
	}
	if created.GetID() == 0 {
		return created, a.fail(action, missingID(http.MethodPost, res.path))
	}
	err := a.store.Update(func(s store.State) store.Patch {
		return res.patch(store.Append(res.get(s), created))
	})
	if err != nil {
		return created, a.fail(action, err)
	}
	return created, nil
}

// updateOne replaces the entity stored under id
func updateOne[T store.Identifiable](ctx context.Context, a *Actions, res resource[T], id int64, in any) (T, error) {
	action := "update " + res.name
	var updated T
	if err := a.api.Do(ctx, http.MethodPut, res.itemPath(id), in, &updated); err != nil {
		return updated, a.fail(action, err, zap.Int64("id", id))
	}
	if updated.GetID() == 0 {
		return updated, a.fail(action, missingID(http.MethodPut, res.itemPath(id)), zap.Int64("id", id))
	}
	err := a.store.Update(func(s store.State) store.Patch {
		return res.patch(store.ReplaceByID(res.get(s), id, updated))
	})
	if err != nil {
		return updated, a.fail(action, err, zap.Int64("id", id))
	}
	return updated, nil
}

// deleteOne removes the entity stored under id
func deleteOne[T store.Identifiable](ctx context.Context, a *Actions, res resource[T], id int64) error {
	action := "delete " + res.name
	if err := a.api.Do(ctx, http.MethodDelete, res.itemPath(id), nil, nil); err != nil {
		return a.fail(action, err, zap.Int64("id", id))
	}
	err := a.store.Update(func(s store.State) store.Patch {
		return res.patch(store.RemoveByID(res.get(s), id))
	})
	if err != nil {
		return a.fail(action, err, zap.Int64("id", id))
	}
	return nil
}
