// Package domain – karma vocabulary.
//
// This file defines the closed set of karma actions, fact-check validation
// statuses, and the presentation-level karma levels and milestones. The
// point values attached to each action live in the services layer; this
// package only names the events.
package domain

// KarmaAction names a single reputation-affecting event. The set is closed:
// every action handled anywhere in the system must appear here, and the
// point table in the services layer must cover every member.
type KarmaAction string

// Submission and moderation outcomes (owner of the content).
const (
	ActionSubmitFact               KarmaAction = "SUBMIT_FACT"
	ActionFactValidatedTrue        KarmaAction = "FACT_VALIDATED_TRUE"
	ActionFactValidatedFalse       KarmaAction = "FACT_VALIDATED_FALSE"
	ActionFactValidatedControversy KarmaAction = "FACT_VALIDATED_CONTROVERSIAL"
	ActionFactDeleted              KarmaAction = "FACT_DELETED"
	ActionSubmitComment            KarmaAction = "SUBMIT_COMMENT"
	ActionCommentDeleted           KarmaAction = "COMMENT_DELETED"
)

// Vote effects on the item owner.
const (
	ActionFactUpvoted         KarmaAction = "FACT_UPVOTED"
	ActionFactDownvoted       KarmaAction = "FACT_DOWNVOTED"
	ActionFactUpvoteRemoved   KarmaAction = "FACT_UPVOTE_REMOVED"
	ActionFactDownvoteRemoved KarmaAction = "FACT_DOWNVOTE_REMOVED"
	ActionCommentUpvoted      KarmaAction = "COMMENT_UPVOTED"
	ActionCommentDownvoted    KarmaAction = "COMMENT_DOWNVOTED"
)

// Vote effects on the voter, keyed by the item's validation status at the
// time the vote landed. VALIDATED_CONTROVERSIAL counts as UNVALIDATED here.
const (
	ActionUpvoteGivenValidatedTrue    KarmaAction = "UPVOTE_GIVEN_VALIDATED_TRUE"
	ActionUpvoteGivenValidatedFalse   KarmaAction = "UPVOTE_GIVEN_VALIDATED_FALSE"
	ActionUnvalidatedFactUpvoted      KarmaAction = "UNVALIDATED_FACT_UPVOTED"
	ActionDownvoteGivenValidatedTrue  KarmaAction = "DOWNVOTE_GIVEN_VALIDATED_TRUE"
	ActionDownvoteGivenValidatedFalse KarmaAction = "DOWNVOTE_GIVEN_VALIDATED_FALSE"
	ActionUnvalidatedFactDownvoted    KarmaAction = "UNVALIDATED_FACT_DOWNVOTED"
	ActionUpvoteGivenRemoved          KarmaAction = "UPVOTE_GIVEN_REMOVED"
	ActionDownvoteCorrectRemoved      KarmaAction = "DOWNVOTE_CORRECT_REMOVED"
	ActionDownvoteValidatedRemoved    KarmaAction = "DOWNVOTE_VALIDATED_FACT_REMOVED"
	ActionDownvoteGivenRemoved        KarmaAction = "DOWNVOTE_GIVEN_REMOVED"
)

// AllKarmaActions enumerates every member of the KarmaAction set. Order is
// stable (grouped as declared) but carries no meaning.
var AllKarmaActions = []KarmaAction{
	ActionSubmitFact,
	ActionFactValidatedTrue,
	ActionFactValidatedFalse,
	ActionFactValidatedControversy,
	ActionFactDeleted,
	ActionSubmitComment,
	ActionCommentDeleted,
	ActionFactUpvoted,
	ActionFactDownvoted,
	ActionFactUpvoteRemoved,
	ActionFactDownvoteRemoved,
	ActionCommentUpvoted,
	ActionCommentDownvoted,
	ActionUpvoteGivenValidatedTrue,
	ActionUpvoteGivenValidatedFalse,
	ActionUnvalidatedFactUpvoted,
	ActionDownvoteGivenValidatedTrue,
	ActionDownvoteGivenValidatedFalse,
	ActionUnvalidatedFactDownvoted,
	ActionUpvoteGivenRemoved,
	ActionDownvoteCorrectRemoved,
	ActionDownvoteValidatedRemoved,
	ActionDownvoteGivenRemoved,
}

var karmaActionSet = func() map[KarmaAction]struct{} {
	m := make(map[KarmaAction]struct{}, len(AllKarmaActions))
	for _, a := range AllKarmaActions {
		m[a] = struct{}{}
	}
	return m
}()

// IsValid reports whether a is a recognized karma action. Use this to
// validate external input before handing an action to the ledger.
func (a KarmaAction) IsValid() bool {
	_, ok := karmaActionSet[a]
	return ok
}

// ValidationStatus is the moderation classification of a fact check.
type ValidationStatus string

const (
	StatusUnvalidated    ValidationStatus = "UNVALIDATED"
	StatusValidatedTrue  ValidationStatus = "VALIDATED_TRUE"
	StatusValidatedFalse ValidationStatus = "VALIDATED_FALSE"
	StatusControversial  ValidationStatus = "VALIDATED_CONTROVERSIAL"
)

// IsValid reports whether s is one of the four recognized statuses.
func (s ValidationStatus) IsValid() bool {
	switch s {
	case StatusUnvalidated, StatusValidatedTrue, StatusValidatedFalse, StatusControversial:
		return true
	}
	return false
}

// StartingKarma is the total every user begins with. UserKarma rows are
// created lazily at this value.
const StartingKarma = 10

// KarmaLevel is a named band of karma totals used for display.
type KarmaLevel struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
}

// KarmaLevels in ascending order of Min. LevelFor picks the highest band
// not exceeding the total.
var KarmaLevels = []KarmaLevel{
	{Label: "Novice", Min: 0},
	{Label: "Bronze", Min: 100},
	{Label: "Silver", Min: 500},
	{Label: "Gold", Min: 1000},
}

// KarmaMilestone is a one-time achievement threshold.
type KarmaMilestone struct {
	Threshold   int    `json:"threshold"`
	Achievement string `json:"achievement"`
}

// KarmaMilestones in ascending threshold order.
var KarmaMilestones = []KarmaMilestone{
	{Threshold: 100, Achievement: "Rising Star"},
	{Threshold: 500, Achievement: "Trusted Contributor"},
	{Threshold: 1000, Achievement: "Expert Fact Checker"},
	{Threshold: 5000, Achievement: "Truth Seeker"},
}

// LevelFor returns the display level for a karma total. Totals below zero
// still map to the lowest level.
func LevelFor(total int) KarmaLevel {
	lvl := KarmaLevels[0]
	for _, l := range KarmaLevels {
		if total >= l.Min {
			lvl = l
		}
	}
	return lvl
}

// NextMilestone returns the first milestone strictly above total, or nil
// when every milestone has been reached.
func NextMilestone(total int) *KarmaMilestone {
	for i := range KarmaMilestones {
		if total < KarmaMilestones[i].Threshold {
			return &KarmaMilestones[i]
		}
	}
	return nil
}

// CompletedMilestones returns the milestones total has reached, in order.
func CompletedMilestones(total int) []KarmaMilestone {
	var out []KarmaMilestone
	for _, m := range KarmaMilestones {
		if total >= m.Threshold {
			out = append(out, m)
		}
	}
	return out
}
