package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quitcoach/client/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	requestDateLayout = "02/01/2006"
	requestComment    = "Estoy interesado en el coaching"
)

// ErrNotAuthenticated is returned when no smoker is logged in
var ErrNotAuthenticated = errors.New("not authenticated")

// Requester is the part of the action layer a Submitter needs
type Requester interface {
	AddRequest(ctx context.Context, data model.CoachRequest) (model.CoachRequest, error)
	GetCoaches(ctx context.Context) ([]model.CoachProfile, error)
	GetRequests(ctx context.Context) ([]model.CoachRequest, error)
}

// Submitter sends coaching requests on behalf of the logged-in smoker
type Submitter struct {
	actions Requester
	logger  *zap.Logger
	now     func() time.Time
}

// NewSubmitter creates a submitter. A nil clock means time.Now.
func NewSubmitter(actions Requester, logger *zap.Logger, clock func() time.Time) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Submitter{actions: actions, logger: logger, now: clock}
}

// RequestCoach creates a pending request from userID to coachID, then
// refreshes coaches and requests in parallel. A refresh failure is returned
// with the created request.
func (s *Submitter) RequestCoach(ctx context.Context, userID, coachID int64) (model.CoachRequest, error) {
	if userID == 0 {
		return model.CoachRequest{}, ErrNotAuthenticated
	}

	created, err := s.actions.AddRequest(ctx, model.CoachRequest{
		UserID:      userID,
		CoachID:     coachID,
		RequestDate: s.now().Format(requestDateLayout),
		Comment:     requestComment,
	})
	if err != nil {
		return model.CoachRequest{}, fmt.Errorf("request coach %d: %w", coachID, err)
	}
	s.logger.Info("coaching requested",
		zap.Int64("request_id", created.ID),
		zap.Int64("user_id", userID),
		zap.Int64("coach_id", coachID),
	)

	var g errgroup.Group
	g.Go(func() error { _, err := s.actions.GetCoaches(ctx); return err })
	g.Go(func() error { _, err := s.actions.GetRequests(ctx); return err })
	if err := g.Wait(); err != nil {
		return created, fmt.Errorf("refresh after request: %w", err)
	}
	return created, nil
}
