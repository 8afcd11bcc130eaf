package user

import "time"

// Principal is the authenticated caller resolved by the account service.
type Principal struct {
	AccountID string
	Email     string
}

// User is a pool participant. AccountID links the row to the identity
// issued by the account service.
type User struct {
	ID           int64
	AccountID    string
	Nickname     string
	Admin        bool
	Activated    bool
	PreviousRank *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
