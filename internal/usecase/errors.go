package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Scoring errors.
var (
	ErrAlreadyScored      = errors.New("match already scored")
	ErrMissingScore       = errors.New("both scores are required")
	ErrNegativeScore      = errors.New("scores must not be negative")
	ErrPersistenceFailure = errors.New("persistence failure")
)

// ErrSelfRoleChange is returned with ErrForbidden when an admin tries to
// revoke their own admin role.
var ErrSelfRoleChange = errors.New("cannot remove your own admin role")

// Bet flow errors.
var (
	ErrBetLocked      = errors.New("match has already kicked off")
	ErrDuplicateBet   = errors.New("bet already placed for this match")
	ErrInvalidBetType = errors.New("invalid bet type")
	ErrInvalidOdds    = errors.New("invalid odds")
)
