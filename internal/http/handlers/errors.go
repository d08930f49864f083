// Package handlers defines HTTP-layer error codes used across all API
// endpoints.
//
// These codes give clients a stable, machine-readable error taxonomy that
// supplements the human-readable message in the envelope. Generic codes
// mirror common HTTP status semantics; domain-specific codes are reserved
// for business failures a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeVoteFailed       = "vote_failed"
	ErrCodeKarmaFailed      = "karma_failed"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
