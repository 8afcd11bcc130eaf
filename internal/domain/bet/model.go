package bet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is one of the fixed outcome categories a user can bet on.
type Type string

const (
	TypeHome     Type = "1"
	TypeDraw     Type = "X"
	TypeAway     Type = "2"
	TypeHomeDraw Type = "1X"
	TypeDrawAway Type = "X2"
	TypeHomeAway Type = "12"
)

var AllTypes = map[Type]struct{}{
	TypeHome:     {},
	TypeDraw:     {},
	TypeAway:     {},
	TypeHomeDraw: {},
	TypeDrawAway: {},
	TypeHomeAway: {},
}

func (t Type) Valid() bool {
	_, ok := AllTypes[t]
	return ok
}

// Bet is one user's prediction for one match.
type Bet struct {
	ID           int64
	UserID       int64
	MatchID      int64
	Type         Type
	PointsEarned decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Revealed is a bet joined with its owner's nickname, shown to everyone
// once the match has kicked off.
type Revealed struct {
	Bet
	Nickname string
}
