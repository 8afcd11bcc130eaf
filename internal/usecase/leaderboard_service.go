package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
)

type LeaderboardService struct {
	reader leaderboard.Reader
}

func NewLeaderboardService(reader leaderboard.Reader) *LeaderboardService {
	return &LeaderboardService{reader: reader}
}

// GetLeaderboard is read on every request; totals change with each scored
// match so it is never cached.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetLeaderboard")
	defer span.End()

	totals, err := s.reader.ListActivatedTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activated totals: %w", err)
	}
	return leaderboard.Build(totals), nil
}
