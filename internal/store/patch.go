package store

import (
	"errors"
	"fmt"

	"github.com/quitcoach/client/internal/model"
)

var (
	// ErrEmptyPatch is returned for a patch that sets no field
	ErrEmptyPatch = errors.New("empty patch")
	// ErrMissingID is returned when a collection holds an entity without a server id
	ErrMissingID = errors.New("entity without id")
)

// Value is an optional patch field. The zero Value is omitted.
type Value[T any] struct {
	v   T
	set bool
}

// Set returns a Value carrying v
func Set[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// Get returns the carried value and whether it was set
func (v Value[T]) Get() (T, bool) {
	return v.v, v.set
}

// IsSet reports whether the field takes part in the merge
func (v Value[T]) IsSet() bool {
	return v.set
}

// Patch is a partial State. Omitted fields are preserved on merge.
type Patch struct {
	Smokers          Value[[]model.User]
	Coaches          Value[[]model.CoachProfile]
	ConsumptionTypes Value[[]model.ConsumptionType]
	FollowUps        Value[[]model.FollowUpRecord]
	Requests         Value[[]model.CoachRequest]
	SelectedCoach    Value[*model.CoachProfile]
	LoggedInUser     Value[*model.User]
	Session          Value[model.AuthSession]
}

// Empty reports whether no field is set
func (p Patch) Empty() bool {
	return !p.Smokers.set &&
		!p.Coaches.set &&
		!p.ConsumptionTypes.set &&
		!p.FollowUps.set &&
		!p.Requests.set &&
		!p.SelectedCoach.set &&
		!p.LoggedInUser.set &&
		!p.Session.set
}

func (p Patch) validate() error {
	if p.Empty() {
		return ErrEmptyPatch
	}
	if err := checkIDs("smokers", p.Smokers); err != nil {
		return err
	}
	if err := checkIDs("coaches", p.Coaches); err != nil {
		return err
	}
	if err := checkIDs("consumption types", p.ConsumptionTypes); err != nil {
		return err
	}
	if err := checkIDs("follow-ups", p.FollowUps); err != nil {
		return err
	}
	return checkIDs("requests", p.Requests)
}

func checkIDs[T Identifiable](field string, v Value[[]T]) error {
	list, ok := v.Get()
	if !ok {
		return nil
	}
	for i, item := range list {
		if item.GetID() == 0 {
			return fmt.Errorf("%s[%d]: %w", field, i, ErrMissingID)
		}
	}
	return nil
}

// merge returns s with every set field of p replaced
func (s State) merge(p Patch) State {
	if v, ok := p.Smokers.Get(); ok {
		s.Smokers = cloneSlice(v)
	}
	if v, ok := p.Coaches.Get(); ok {
		s.Coaches = cloneSlice(v)
	}
	if v, ok := p.ConsumptionTypes.Get(); ok {
		s.ConsumptionTypes = cloneSlice(v)
	}
	if v, ok := p.FollowUps.Get(); ok {
		s.FollowUps = cloneSlice(v)
	}
	if v, ok := p.Requests.Get(); ok {
		s.Requests = cloneSlice(v)
	}
	if v, ok := p.SelectedCoach.Get(); ok {
		s.SelectedCoach = clonePtr(v)
	}
	if v, ok := p.LoggedInUser.Get(); ok {
		s.LoggedInUser = clonePtr(v)
	}
	if v, ok := p.Session.Get(); ok {
		s.Session = v
	}
	return s
}
