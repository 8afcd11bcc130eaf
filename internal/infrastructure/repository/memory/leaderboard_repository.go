package memory

import (
	"context"

	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	"github.com/shopspring/decimal"
)

type LeaderboardRepository struct {
	store *Store
}

func NewLeaderboardRepository(store *Store) *LeaderboardRepository {
	return &LeaderboardRepository{store: store}
}

func (r *LeaderboardRepository) ListActivatedTotals(_ context.Context) ([]leaderboard.Totals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.activatedTotals(), nil
}

// activatedTotals must be called with mu held.
func (s *Store) activatedTotals() []leaderboard.Totals {
	sums := make(map[int64]decimal.Decimal, len(s.users))
	for _, b := range s.bets {
		sums[b.UserID] = sums[b.UserID].Add(b.PointsEarned)
	}

	out := make([]leaderboard.Totals, 0, len(s.users))
	for _, u := range s.users {
		if !u.Activated {
			continue
		}
		var previous *int
		if u.PreviousRank != nil {
			rank := *u.PreviousRank
			previous = &rank
		}
		out = append(out, leaderboard.Totals{
			UserID:       u.ID,
			Nickname:     u.Nickname,
			TotalPoints:  sums[u.ID],
			PreviousRank: previous,
		})
	}
	leaderboard.SortTotals(out)
	return out
}
