package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/shopspring/decimal"
)

type BetRepository struct {
	store *Store
}

func NewBetRepository(store *Store) *BetRepository {
	return &BetRepository{store: store}
}

func (r *BetRepository) GetByID(_ context.Context, betID int64) (bet.Bet, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bets[betID]
	if !ok {
		return bet.Bet{}, false, nil
	}
	return b, true, nil
}

func (r *BetRepository) GetByUserAndMatch(_ context.Context, userID, matchID int64) (bet.Bet, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, b := range r.store.bets {
		if b.UserID == userID && b.MatchID == matchID {
			return b, true, nil
		}
	}
	return bet.Bet{}, false, nil
}

func (r *BetRepository) ListRevealedByMatch(_ context.Context, matchID int64) ([]bet.Revealed, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]bet.Revealed, 0)
	for _, b := range r.store.bets {
		if b.MatchID != matchID {
			continue
		}
		out = append(out, bet.Revealed{Bet: b, Nickname: r.store.users[b.UserID].Nickname})
	}
	sort.Slice(out, func(i, j int) bool {
		left, right := strings.ToLower(out[i].Nickname), strings.ToLower(out[j].Nickname)
		if left != right {
			return left < right
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *BetRepository) Create(_ context.Context, item bet.Bet) (bet.Bet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[item.UserID]; !ok {
		return bet.Bet{}, fmt.Errorf("create bet: user=%d not found", item.UserID)
	}
	if _, ok := r.store.matches[item.MatchID]; !ok {
		return bet.Bet{}, fmt.Errorf("create bet: match=%d not found", item.MatchID)
	}
	for _, existing := range r.store.bets {
		if existing.UserID == item.UserID && existing.MatchID == item.MatchID {
			return bet.Bet{}, fmt.Errorf("create bet user=%d match=%d: %w", item.UserID, item.MatchID, bet.ErrDuplicate)
		}
	}

	item.ID = 0
	item.PointsEarned = decimal.Zero
	item.CreatedAt = r.store.now().UTC()
	item.UpdatedAt = item.CreatedAt
	return r.store.putBet(item), nil
}

func (r *BetRepository) UpdateType(_ context.Context, betID int64, betType bet.Type) (bet.Bet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bets[betID]
	if !ok {
		return bet.Bet{}, fmt.Errorf("update bet type: bet=%d not found", betID)
	}
	b.Type = betType
	b.UpdatedAt = r.store.now().UTC()
	r.store.bets[betID] = b
	return b, nil
}

func (r *BetRepository) Delete(_ context.Context, betID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.bets, betID)
	return nil
}
