package scoring

import (
	"context"
	"errors"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/shopspring/decimal"
)

// ErrScoreAlreadySet is returned by SetMatchScore when the match already
// carries a final score.
var ErrScoreAlreadySet = errors.New("match score already set")

// BetPoints is the computed payout for one bet.
type BetPoints struct {
	BetID  int64
	Points decimal.Decimal
}

// BetStore reads the bets of a match and persists their points.
type BetStore interface {
	ListBetsByMatch(ctx context.Context, matchID int64) ([]bet.Bet, error)
	// UpdateBetPoints writes all points in one bulk statement.
	UpdateBetPoints(ctx context.Context, points []BetPoints) error
}

// Store is the transactional view a score submission works against. Every
// call made through one Store belongs to the same atomic unit.
type Store interface {
	// LockMatch reads the match and holds a write lock on it until the
	// transaction ends.
	LockMatch(ctx context.Context, matchID int64) (match.Match, bool, error)
	SetMatchScore(ctx context.Context, matchID int64, homeScore, awayScore int) error
	BetStore
	leaderboard.SnapshotStore
}

// Transactor runs fn atomically. If fn returns an error, every write made
// through the Store is rolled back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
