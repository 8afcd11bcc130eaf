package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/scoring"
)

// ScoringRepository holds the store's write lock for the whole transaction
// and restores a snapshot when fn fails.
type ScoringRepository struct {
	store *Store
}

func NewScoringRepository(store *Store) *ScoringRepository {
	return &ScoringRepository{store: store}
}

func (r *ScoringRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, store scoring.Store) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.takeSnapshot()
	if err := fn(ctx, &scoringTxStore{store: r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// scoringTxStore runs with the store write lock already held.
type scoringTxStore struct {
	store *Store
}

func (s *scoringTxStore) LockMatch(_ context.Context, matchID int64) (match.Match, bool, error) {
	m, ok := s.store.matches[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return m, true, nil
}

func (s *scoringTxStore) SetMatchScore(_ context.Context, matchID int64, homeScore, awayScore int) error {
	m, ok := s.store.matches[matchID]
	if !ok {
		return fmt.Errorf("set match score: match=%d not found", matchID)
	}
	if m.IsScored() {
		return fmt.Errorf("set match score match=%d: %w", matchID, scoring.ErrScoreAlreadySet)
	}

	home, away := homeScore, awayScore
	m.HomeScore = &home
	m.AwayScore = &away
	m.UpdatedAt = s.store.now().UTC()
	s.store.matches[matchID] = m
	return nil
}

func (s *scoringTxStore) ListBetsByMatch(_ context.Context, matchID int64) ([]bet.Bet, error) {
	out := make([]bet.Bet, 0)
	for _, b := range s.store.bets {
		if b.MatchID == matchID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *scoringTxStore) UpdateBetPoints(_ context.Context, points []scoring.BetPoints) error {
	now := s.store.now().UTC()
	for _, item := range points {
		b, ok := s.store.bets[item.BetID]
		if !ok {
			return fmt.Errorf("update bet points: bet=%d not found", item.BetID)
		}
		b.PointsEarned = item.Points
		b.UpdatedAt = now
		s.store.bets[item.BetID] = b
	}
	return nil
}

func (s *scoringTxStore) ListActivatedTotals(_ context.Context) ([]leaderboard.Totals, error) {
	return s.store.activatedTotals(), nil
}

func (s *scoringTxStore) UpdatePreviousRanks(_ context.Context, ranks []leaderboard.RankSnapshot) error {
	now := s.store.now().UTC()
	for _, item := range ranks {
		u, ok := s.store.users[item.UserID]
		if !ok {
			return fmt.Errorf("update previous ranks: user=%d not found", item.UserID)
		}
		rank := item.Rank
		u.PreviousRank = &rank
		u.UpdatedAt = now
		s.store.users[item.UserID] = u
	}
	return nil
}
