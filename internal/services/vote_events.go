// Package services – vote events.
//
// All karma owed by a vote flows through one explicit event type instead of
// being scattered through the vote code: the orchestrator commits its
// transaction, emits a VoteApplied, and a pure mapping turns the event into
// the ledger entries to append. The mapping has no I/O and no clock, which
// is what makes the vote state machine testable in isolation.
package services

import "github.com/podtruth/go-factcheck-backend/internal/domain"

// VoteApplied describes one settled vote transition on a votable item.
// StatusAtVote is the fact check's validation status as read inside the
// vote transaction; it is empty for comments.
type VoteApplied struct {
	Kind         string
	ItemID       string
	VoterID      string
	OwnerID      string
	OldValue     int
	NewValue     int
	StatusAtVote domain.ValidationStatus
}

// KarmaAward is one ledger append owed to a user because of a vote event.
type KarmaAward struct {
	UserID   string
	Action   domain.KarmaAction
	TargetID string
}

// KarmaAwardsFor maps a vote transition to the karma entries it earns.
// Rules:
//   - A no-op transition (old == new) earns nothing.
//   - Self-votes never earn or cost the item's owner; the voter-side
//     entries still apply.
//   - Owner-side: removal of the old vote and arrival of the new vote are
//     separate events. Comments use the plain upvoted/downvoted actions and
//     have no removal-specific variants.
//   - Voter-side (fact checks only): the action is keyed by the item's
//     validation status at vote time, with VALIDATED_CONTROVERSIAL treated
//     as UNVALIDATED. Removing an upvote is status-blind; removing a
//     downvote keeps the status distinction.
func KarmaAwardsFor(evt VoteApplied) []KarmaAward {
	if evt.OldValue == evt.NewValue {
		return nil
	}

	var awards []KarmaAward
	award := func(userID string, action domain.KarmaAction) {
		awards = append(awards, KarmaAward{UserID: userID, Action: action, TargetID: evt.ItemID})
	}

	ownerEligible := evt.OwnerID != "" && evt.OwnerID != evt.VoterID

	// Owner side: undo the old vote's effect, then credit the new one.
	if ownerEligible {
		switch {
		case evt.OldValue == 1 && evt.Kind == domain.SubjectFactCheck:
			award(evt.OwnerID, domain.ActionFactUpvoteRemoved)
		case evt.OldValue == -1 && evt.Kind == domain.SubjectFactCheck:
			award(evt.OwnerID, domain.ActionFactDownvoteRemoved)
		}
		switch {
		case evt.NewValue == 1 && evt.Kind == domain.SubjectFactCheck:
			award(evt.OwnerID, domain.ActionFactUpvoted)
		case evt.NewValue == 1 && evt.Kind == domain.SubjectComment:
			award(evt.OwnerID, domain.ActionCommentUpvoted)
		case evt.NewValue == -1 && evt.Kind == domain.SubjectFactCheck:
			award(evt.OwnerID, domain.ActionFactDownvoted)
		case evt.NewValue == -1 && evt.Kind == domain.SubjectComment:
			award(evt.OwnerID, domain.ActionCommentDownvoted)
		}
	}

	// Voter side applies to fact checks only.
	if evt.Kind != domain.SubjectFactCheck {
		return awards
	}

	status := evt.StatusAtVote
	if status == domain.StatusControversial {
		status = domain.StatusUnvalidated
	}

	// Removal of the previous vote.
	switch {
	case evt.OldValue == 1:
		award(evt.VoterID, domain.ActionUpvoteGivenRemoved)
	case evt.OldValue == -1 && status == domain.StatusValidatedFalse:
		award(evt.VoterID, domain.ActionDownvoteCorrectRemoved)
	case evt.OldValue == -1 && status == domain.StatusValidatedTrue:
		award(evt.VoterID, domain.ActionDownvoteValidatedRemoved)
	case evt.OldValue == -1:
		award(evt.VoterID, domain.ActionDownvoteGivenRemoved)
	}

	// The new vote.
	switch {
	case evt.NewValue == 1 && status == domain.StatusValidatedTrue:
		award(evt.VoterID, domain.ActionUpvoteGivenValidatedTrue)
	case evt.NewValue == 1 && status == domain.StatusValidatedFalse:
		award(evt.VoterID, domain.ActionUpvoteGivenValidatedFalse)
	case evt.NewValue == 1:
		award(evt.VoterID, domain.ActionUnvalidatedFactUpvoted)
	case evt.NewValue == -1 && status == domain.StatusValidatedTrue:
		award(evt.VoterID, domain.ActionDownvoteGivenValidatedTrue)
	case evt.NewValue == -1 && status == domain.StatusValidatedFalse:
		award(evt.VoterID, domain.ActionDownvoteGivenValidatedFalse)
	case evt.NewValue == -1:
		award(evt.VoterID, domain.ActionUnvalidatedFactDownvoted)
	}

	return awards
}
