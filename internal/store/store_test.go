package store

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quitcoach/client/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coach(id int64, name string) model.CoachProfile {
	return model.CoachProfile{ID: id, Name: model.Ptr(name)}
}

func TestPatch_PreservesOmittedFields(t *testing.T) {
	s := New()
	require.NoError(t, s.Patch(Patch{
		Coaches:          Set([]model.CoachProfile{coach(1, "Ana")}),
		ConsumptionTypes: Set([]model.ConsumptionType{{ID: 1, Name: "Cigarrillos"}}),
	}))

	require.NoError(t, s.Patch(Patch{Coaches: Set([]model.CoachProfile{coach(2, "Luis")})}))

	state := s.Read()
	require.Len(t, state.Coaches, 1)
	assert.Equal(t, int64(2), state.Coaches[0].ID)
	assert.Equal(t, []model.ConsumptionType{{ID: 1, Name: "Cigarrillos"}}, state.ConsumptionTypes)
}

func TestPatch_ExplicitNilClearsPointer(t *testing.T) {
	s := New()
	selected := coach(3, "Marta")
	require.NoError(t, s.Patch(Patch{SelectedCoach: Set(&selected)}))
	require.NotNil(t, s.Read().SelectedCoach)

	require.NoError(t, s.Patch(Patch{SelectedCoach: Set[*model.CoachProfile](nil)}))
	assert.Nil(t, s.Read().SelectedCoach)
}

func TestPatch_Rejected(t *testing.T) {
	s := New()
	require.NoError(t, s.Patch(Patch{Coaches: Set([]model.CoachProfile{coach(1, "Ana")})}))
	before := s.Read()

	calls := 0
	cancel := s.Subscribe(func(State) { calls++ })
	defer cancel()

	err := s.Patch(Patch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	err = s.Patch(Patch{
		Coaches: Set([]model.CoachProfile{coach(1, "Ana"), {Name: model.Ptr("no id")}}),
		Session: Set(model.AuthSession{IsAuthenticated: true}),
	})
	assert.ErrorIs(t, err, ErrMissingID)

	assert.Equal(t, before, s.Read())
	assert.Zero(t, calls)
}

func TestRead_SnapshotIsImmutable(t *testing.T) {
	s := New()
	input := []model.CoachProfile{coach(1, "Ana")}
	require.NoError(t, s.Patch(Patch{Coaches: Set(input)}))

	input[0].ID = 99
	snapshot := s.Read()
	snapshot.Coaches[0].ID = 42
	snapshot.Coaches = append(snapshot.Coaches, coach(5, "Otro"))

	again := s.Read()
	require.Len(t, again.Coaches, 1)
	assert.Equal(t, int64(1), again.Coaches[0].ID)
}

func TestSubscribe(t *testing.T) {
	s := New()

	var seen [][]int64
	cancel := s.Subscribe(func(state State) {
		ids := make([]int64, 0, len(state.Coaches))
		for _, c := range state.Coaches {
			ids = append(ids, c.ID)
		}
		seen = append(seen, ids)
	})

	require.NoError(t, s.Update(func(st State) Patch {
		return Patch{Coaches: Set(Append(st.Coaches, coach(1, "Ana")))}
	}))
	require.NoError(t, s.Update(func(st State) Patch {
		return Patch{Coaches: Set(Append(st.Coaches, coach(2, "Luis")))}
	}))

	cancel()
	cancel()
	require.NoError(t, s.Patch(Patch{Coaches: Set([]model.CoachProfile{})}))

	assert.Equal(t, [][]int64{{1}, {1, 2}}, seen)
}

func TestSubscribe_CancelOneKeepsOthers(t *testing.T) {
	s := New()
	var a, b int
	cancelA := s.Subscribe(func(State) { a++ })
	cancelB := s.Subscribe(func(State) { b++ })
	defer cancelB()

	require.NoError(t, s.Patch(Patch{Session: Set(model.AuthSession{})}))
	cancelA()
	require.NoError(t, s.Patch(Patch{Session: Set(model.AuthSession{})}))

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestUpdate_ConcurrentAppendsAreNotLost(t *testing.T) {
	s := New()
	const n = 100

	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := s.Update(func(st State) Patch {
				return Patch{Requests: Set(Append(st.Requests, model.CoachRequest{ID: id}))}
			})
			assert.NoError(t, err)
		}(int64(i))
	}
	wg.Wait()

	assert.Len(t, s.Read().Requests, n)
}

func TestUpdate_NotificationsFollowApplyOrder(t *testing.T) {
	s := New()
	var mu sync.Mutex
	var lengths []int
	cancel := s.Subscribe(func(st State) {
		mu.Lock()
		lengths = append(lengths, len(st.FollowUps))
		mu.Unlock()
	})
	defer cancel()

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = s.Update(func(st State) Patch {
				return Patch{FollowUps: Set(Append(st.FollowUps, model.FollowUpRecord{ID: id}))}
			})
		}(int64(i))
	}
	wg.Wait()

	require.Len(t, lengths, 20)
	for i, l := range lengths {
		assert.Equal(t, i+1, l)
	}
}

func TestSubscriber_ReadsWhileAnotherPatchApplies(t *testing.T) {
	s := New()
	release := make(chan struct{})
	var calls atomic.Int32
	var mu sync.Mutex
	var seen []int

	cancel := s.Subscribe(func(State) {
		if calls.Add(1) == 1 {
			<-release
		}
		st := s.Read()
		mu.Lock()
		seen = append(seen, len(st.Coaches))
		mu.Unlock()
	})
	defer cancel()

	first := make(chan error, 1)
	go func() {
		first <- s.Patch(Patch{Coaches: Set([]model.CoachProfile{coach(1, "Ana")})})
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() {
		second <- s.Update(func(st State) Patch {
			return Patch{Coaches: Set(Append(st.Coaches, coach(2, "Luis")))}
		})
	}()
	select {
	case err := <-second:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("patch blocked behind a running subscriber")
	}

	close(release)
	select {
	case err := <-first:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber Read never returned")
	}

	assert.Equal(t, int32(2), calls.Load())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2, 2}, seen)
}

func TestSubscriber_PatchFromCallbackIsDeliveredAfter(t *testing.T) {
	s := New()
	var sessions []bool

	cancel := s.Subscribe(func(st State) {
		sessions = append(sessions, st.Session.IsAuthenticated)
		if st.Session.IsAuthenticated && st.LoggedInUser == nil {
			require.NoError(t, s.Patch(Patch{LoggedInUser: Set(&model.User{ID: 1})}))
		}
	})
	defer cancel()

	require.NoError(t, s.Patch(Patch{Session: Set(model.AuthSession{IsAuthenticated: true})}))

	assert.Equal(t, []bool{true, true}, sessions)
	require.NotNil(t, s.Read().LoggedInUser)
}
