package match

import "context"

// Repository exposes match reads and the odds write used by admins.
// Scores are written only by the scoring transaction.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	GetByID(ctx context.Context, matchID int64) (Match, bool, error)
	UpdateOdds(ctx context.Context, matchID int64, odds Odds) error
}
