package leaderboard

import "github.com/shopspring/decimal"

type RankMovement string

const (
	RankMovementUp   RankMovement = "up"
	RankMovementDown RankMovement = "down"
	RankMovementSame RankMovement = "same"
	RankMovementNew  RankMovement = "new"
)

// Totals is one activated user's aggregated points.
type Totals struct {
	UserID       int64
	Nickname     string
	TotalPoints  decimal.Decimal
	PreviousRank *int
}

// Entry is one rendered leaderboard row.
type Entry struct {
	Position         int
	UserID           int64
	Nickname         string
	TotalPoints      decimal.Decimal
	PreviousPosition *int
	Movement         RankMovement
}

// RankSnapshot is the rank a user held right before a scoring event.
type RankSnapshot struct {
	UserID int64
	Rank   int
}
