package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/scoring"
	basecache "github.com/riskibarqy/bet-pool/internal/platform/cache"
)

const matchKeyPrefix = "match:"

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, matchKeyPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	key := matchKeyPrefix + "id:" + strconv.FormatInt(matchID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) UpdateOdds(ctx context.Context, matchID int64, odds match.Odds) error {
	if err := r.next.UpdateOdds(ctx, matchID, odds); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, matchKeyPrefix)
	return nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

// ScoringTransactor drops cached matches after every committed score
// submission so readers never see a stale unscored match.
type ScoringTransactor struct {
	next  scoring.Transactor
	cache *basecache.Store
}

func NewScoringTransactor(next scoring.Transactor, cache *basecache.Store) *ScoringTransactor {
	return &ScoringTransactor{next: next, cache: cache}
}

func (t *ScoringTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, store scoring.Store) error) error {
	if err := t.next.WithinTx(ctx, fn); err != nil {
		return err
	}
	t.cache.DeletePrefix(ctx, matchKeyPrefix)
	return nil
}
