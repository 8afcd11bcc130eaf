package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/bet-pool/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(r.store.matches))
	for _, m := range r.store.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID int64) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.matches[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return m, true, nil
}

func (r *MatchRepository) UpdateOdds(_ context.Context, matchID int64, odds match.Odds) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.matches[matchID]
	if !ok {
		return fmt.Errorf("update match odds: match=%d not found", matchID)
	}
	m.Odds = odds
	m.UpdatedAt = r.store.now().UTC()
	r.store.matches[matchID] = m
	return nil
}
