package bet

import (
	"context"
	"errors"
)

var ErrDuplicate = errors.New("user already has a bet on this match")

type Repository interface {
	GetByID(ctx context.Context, betID int64) (Bet, bool, error)
	GetByUserAndMatch(ctx context.Context, userID, matchID int64) (Bet, bool, error)
	ListRevealedByMatch(ctx context.Context, matchID int64) ([]Revealed, error)
	// Create returns ErrDuplicate when the (user, match) pair already has a bet.
	Create(ctx context.Context, item Bet) (Bet, error)
	UpdateType(ctx context.Context, betID int64, betType Type) (Bet, error)
	Delete(ctx context.Context, betID int64) error
}
