package repo

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/quitcoach/client/internal/db"
	"github.com/quitcoach/client/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	table := NewTable[model.ConsumptionType]()

	t.Run("A_InsertAssignsSequentialIDs", func(t *testing.T) {
		a := table.Insert(model.ConsumptionType{Name: "Cigarrillos"})
		b := table.Insert(model.ConsumptionType{ID: 99, Name: "Vaper"})
		assert.Equal(t, int64(1), a.ID)
		assert.Equal(t, int64(2), b.ID)
		assert.Equal(t, 2, table.Len())
	})

	t.Run("B_GetAndFind", func(t *testing.T) {
		got, ok := table.Get(2)
		require.True(t, ok)
		assert.Equal(t, "Vaper", got.Name)

		_, ok = table.Get(42)
		assert.False(t, ok)

		found, ok := table.Find(func(c model.ConsumptionType) bool { return c.Name == "Cigarrillos" })
		require.True(t, ok)
		assert.Equal(t, int64(1), found.ID)
	})

	t.Run("C_UpdateKeepsID", func(t *testing.T) {
		updated, ok, err := table.Update(1, func(c model.ConsumptionType) (model.ConsumptionType, error) {
			c.Name = "Puros"
			c.ID = 500
			return c, nil
		})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, model.ConsumptionType{ID: 1, Name: "Puros"}, updated)

		_, ok, err = table.Update(77, func(c model.ConsumptionType) (model.ConsumptionType, error) { return c, nil })
		require.NoError(t, err)
		assert.False(t, ok)

		boom := errors.New("boom")
		_, ok, err = table.Update(1, func(c model.ConsumptionType) (model.ConsumptionType, error) { return c, boom })
		assert.True(t, ok)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("D_ListFiltersInOrder", func(t *testing.T) {
		table.Insert(model.ConsumptionType{Name: "Pipa"})
		all := table.List(nil)
		require.Len(t, all, 3)
		assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})

		some := table.List(func(c model.ConsumptionType) bool { return c.ID != 2 })
		assert.Len(t, some, 2)
	})

	t.Run("E_DeleteDoesNotReuseIDs", func(t *testing.T) {
		assert.True(t, table.Delete(3))
		assert.False(t, table.Delete(3))
		next := table.Insert(model.ConsumptionType{Name: "Hookah"})
		assert.Equal(t, int64(4), next.ID)
	})
}

func TestSmokerRepo(t *testing.T) {
	ctx := context.Background()
	smokers := NewSmokerRepo(NewTable[model.User]())

	created, err := smokers.Create(ctx, model.User{Email: "ana@example.com", Name: model.Ptr("Ana")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	_, err = smokers.Create(ctx, model.User{Email: "ANA@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := smokers.GetByEmail(ctx, "Ana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = smokers.GetByID(ctx, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCoachRepo(t *testing.T) {
	ctx := context.Background()
	coaches := NewCoachRepo(NewTable[model.CoachProfile]())

	created, err := coaches.Create(ctx, model.CoachProfile{Email: "coach@example.com"})
	require.NoError(t, err)

	got, err := coaches.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "coach@example.com", got.Email)

	_, err = coaches.Create(ctx, model.CoachProfile{Email: "coach@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = coaches.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testTokenRepo(t *testing.T, tokens TokenRepo) {
	ctx := context.Background()

	_, err := tokens.Load(ctx)
	require.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, tokens.Save(ctx, "first"))
	require.NoError(t, tokens.Save(ctx, "second"))

	got, err := tokens.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	require.NoError(t, tokens.Clear(ctx))
	require.NoError(t, tokens.Clear(ctx))

	_, err = tokens.Load(ctx)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenRepo_SQLite(t *testing.T) {
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "token.db"), nil)
	require.NoError(t, err)
	defer database.Close()

	testTokenRepo(t, NewTokenRepo(database))
}

func TestTokenRepo_SQLiteSurvivesReopen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "token.db")
	ctx := context.Background()

	first, err := db.Open(ctx, dsn, nil)
	require.NoError(t, err)
	require.NoError(t, NewTokenRepo(first).Save(ctx, "persisted"))
	require.NoError(t, first.Close())

	second, err := db.Open(ctx, dsn, nil)
	require.NoError(t, err)
	defer second.Close()

	got, err := NewTokenRepo(second).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)
}

func TestTokenRepo_Memory(t *testing.T) {
	testTokenRepo(t, NewMemoryTokenRepo())
}

func TestTable_ConcurrentInsert(t *testing.T) {
	table := NewTable[model.CoachRequest]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table.Insert(model.CoachRequest{UserID: 1, CoachID: 2})
		}()
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, r := range table.List(nil) {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true
	}
	assert.Len(t, seen, 50)
}
