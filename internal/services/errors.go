// Package services defines the business logic for fact checks, comments,
// votes, and the karma ledger. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrFactCheckNotFound indicates that the requested fact check does
	// not exist.
	ErrFactCheckNotFound = errors.New("fact check not found")

	// ErrCommentNotFound indicates that the requested comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotificationNotFound indicates that the requested notification does
	// not exist or belongs to another user.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidVote is returned when a vote value is outside the allowed
	// set (-1, 0, or 1) or the vote subject kind is unknown.
	ErrInvalidVote = errors.New("vote value must be -1, 0 or 1")

	// ErrInvalidArgument is returned when required identifiers are empty or
	// an enum value (karma action, validation status) is not recognized.
	// The request is rejected before any mutation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPermissionDenied is returned when the caller is not allowed to
	// perform the operation (e.g. deleting someone else's fact check
	// without moderator rights).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTransactionConflict is returned when a storage transaction kept
	// failing on contention after the configured number of retries. The
	// operation had no effect and may be retried by the caller.
	ErrTransactionConflict = errors.New("transaction conflict, retries exhausted")
)
