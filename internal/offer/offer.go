// Package offer decides which coaches a smoker may request and submits
// coaching requests.
package offer

import (
	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/store"
)

// Offerable returns the coaches with a complete profile that have no settled
// request from userID, in store order. Pending requests do not exclude a coach.
func Offerable(state store.State, userID int64) []model.CoachProfile {
	settled := make(map[int64]bool)
	for _, r := range state.Requests {
		if r.UserID == userID && r.Settled() {
			settled[r.CoachID] = true
		}
	}

	var out []model.CoachProfile
	for _, c := range state.Coaches {
		if c.Complete() && !settled[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
