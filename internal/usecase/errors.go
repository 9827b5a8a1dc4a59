package usecase

import "errors"

// Stable failure kinds surfaced to callers. Every operation fails with
// exactly one of these wrapped around a human-readable reason, so the
// transport layer can map each to a distinct response.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidState          = errors.New("operation invalid for current state")
	ErrPreconditionFailed    = errors.New("precondition failed")
	ErrConflict              = errors.New("conflicting concurrent update")
	ErrAuctionExpired        = errors.New("auction expired")
	ErrSettlementTooEarly    = errors.New("auction not yet due for settlement")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
