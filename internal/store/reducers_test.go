package store

import (
	"testing"

	"github.com/quitcoach/client/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestReducers(t *testing.T) {
	list := []model.ConsumptionType{{ID: 1, Name: "Cigarrillos"}, {ID: 2, Name: "Vaper"}}

	t.Run("Append", func(t *testing.T) {
		out := Append(list, model.ConsumptionType{ID: 3, Name: "Puros"})
		assert.Len(t, out, 3)
		assert.Len(t, list, 2, "input untouched")
		assert.Equal(t, int64(3), out[2].ID)
	})

	t.Run("ReplaceByID", func(t *testing.T) {
		out := ReplaceByID(list, 2, model.ConsumptionType{ID: 2, Name: "Vapeador"})
		assert.Equal(t, "Vapeador", out[1].Name)
		assert.Equal(t, "Vaper", list[1].Name, "input untouched")

		same := ReplaceByID(list, 9, model.ConsumptionType{ID: 9})
		assert.Equal(t, list, same)
	})

	t.Run("RemoveByID", func(t *testing.T) {
		out := RemoveByID(list, 1)
		assert.Equal(t, []model.ConsumptionType{{ID: 2, Name: "Vaper"}}, out)
		assert.Len(t, list, 2, "input untouched")
		assert.Len(t, RemoveByID(list, 9), 2)
	})

	t.Run("AppendToNil", func(t *testing.T) {
		out := Append[model.User](nil, model.User{ID: 1})
		assert.Len(t, out, 1)
	})
}
