// Package services – karma point table.
//
// This file holds the static mapping from karma action to its signed point
// delta. The table is total over domain.AllKarmaActions: an action missing
// from it is a programming error, so Points fails fast instead of silently
// awarding zero. Input validation belongs to callers (see
// KarmaService.Append), which reject unknown actions before ever reaching
// the table.
package services

import (
	"fmt"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
)

// karmaPoints maps every karma action to its fixed signed point value.
// Positive values reward behavior the community wants more of; negative
// values price behavior it wants less of. Voter-side values are keyed by
// how the vote relates to the moderation outcome, so agreeing with a
// VALIDATED_FALSE verdict (downvoting debunked content) pays, while
// propping it up costs.
var karmaPoints = map[domain.KarmaAction]int{
	// Submission and moderation outcomes
	domain.ActionSubmitFact:               10,
	domain.ActionFactValidatedTrue:        20,
	domain.ActionFactValidatedFalse:       -15,
	domain.ActionFactValidatedControversy: 5,
	domain.ActionFactDeleted:              -10,
	domain.ActionSubmitComment:            1,
	domain.ActionCommentDeleted:           -3,

	// Owner-side vote effects
	domain.ActionFactUpvoted:         2,
	domain.ActionFactDownvoted:       -1,
	domain.ActionFactUpvoteRemoved:   -2,
	domain.ActionFactDownvoteRemoved: 1,
	domain.ActionCommentUpvoted:      1,
	domain.ActionCommentDownvoted:    -1,

	// Voter-side vote effects
	domain.ActionUpvoteGivenValidatedTrue:    1,
	domain.ActionUpvoteGivenValidatedFalse:   -2,
	domain.ActionUnvalidatedFactUpvoted:      1,
	domain.ActionDownvoteGivenValidatedTrue:  -2,
	domain.ActionDownvoteGivenValidatedFalse: 1,
	domain.ActionUnvalidatedFactDownvoted:    -1,
	domain.ActionUpvoteGivenRemoved:          -1,
	domain.ActionDownvoteCorrectRemoved:      -1,
	domain.ActionDownvoteValidatedRemoved:    2,
	domain.ActionDownvoteGivenRemoved:        1,
}

// Points returns the signed point value for a karma action. It panics on an
// action outside the table: that can only happen when a new action was added
// to the domain without a matching point value, which must fail loudly in
// tests rather than quietly award nothing.
func Points(action domain.KarmaAction) int {
	pts, ok := karmaPoints[action]
	if !ok {
		panic(fmt.Sprintf("karma action %q has no point value", action))
	}
	return pts
}
