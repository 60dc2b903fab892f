// Package store holds the last-known-good server state shared by the actions
// and the views. Patch and Update are the only ways to change it.
package store

import (
	"sync"

	"github.com/quitcoach/client/internal/model"
)

// State is a snapshot of the store. Snapshots returned by Read or passed to
// subscribers are copies; entity fields behind pointers are shared and must be
// treated as read-only.
type State struct {
	Smokers          []model.User
	Coaches          []model.CoachProfile
	ConsumptionTypes []model.ConsumptionType
	FollowUps        []model.FollowUpRecord
	Requests         []model.CoachRequest
	SelectedCoach    *model.CoachProfile
	LoggedInUser     *model.User
	Session          model.AuthSession
}

func (s State) clone() State {
	s.Smokers = cloneSlice(s.Smokers)
	s.Coaches = cloneSlice(s.Coaches)
	s.ConsumptionTypes = cloneSlice(s.ConsumptionTypes)
	s.FollowUps = cloneSlice(s.FollowUps)
	s.Requests = cloneSlice(s.Requests)
	s.SelectedCoach = clonePtr(s.SelectedCoach)
	s.LoggedInUser = clonePtr(s.LoggedInUser)
	return s
}

type subscriber struct {
	id int
	fn func(State)
}

// Store is safe for concurrent use
type Store struct {
	mu    sync.Mutex
	state State

	// snapshots waiting for delivery, in apply order. One caller at a time
	// drains the queue and runs subscribers with no lock held.
	queueMu  sync.Mutex
	queue    []State
	draining bool

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

// New creates an empty store
func New() *Store {
	return &Store{}
}

// Read returns a snapshot of the current state
func (s *Store) Read() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Patch merges p into the state. A rejected patch changes nothing.
func (s *Store) Patch(p Patch) error {
	return s.Update(func(State) Patch { return p })
}

// Update computes a patch from the current state and merges it atomically.
// Splices computed inside fn cannot lose a concurrent write. Subscribers run
// after the merge, in apply order; when another caller is already delivering,
// Update returns and that caller delivers this snapshot too.
func (s *Store) Update(fn func(State) Patch) error {
	s.mu.Lock()
	p := fn(s.state.clone())
	if err := p.validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = s.state.merge(p)
	drain := s.enqueue(s.state.clone())
	s.mu.Unlock()

	if drain {
		s.deliver()
	}
	return nil
}

// enqueue is called with mu held so the queue follows apply order. It
// reports whether the caller must drain.
func (s *Store) enqueue(snapshot State) bool {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	s.queue = append(s.queue, snapshot)
	if s.draining {
		return false
	}
	s.draining = true
	return true
}

func (s *Store) deliver() {
	for {
		s.queueMu.Lock()
		if len(s.queue) == 0 {
			s.queue = nil
			s.draining = false
			s.queueMu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		for _, fn := range s.subscribers() {
			fn(next.clone())
		}
	}
}

// Subscribe registers fn to be called with the new snapshot after every
// applied patch. fn may read or patch the store; a patch made from fn is
// delivered after fn returns.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) subscribers() []func(State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	out := make([]func(State), len(s.subs))
	for i, sub := range s.subs {
		out[i] = sub.fn
	}
	return out
}
