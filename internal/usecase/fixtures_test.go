package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/scoring"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"github.com/riskibarqy/bet-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/bet-pool/internal/platform/logging"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 6, 20, 18, 0, 0, 0, time.UTC)

type poolFixture struct {
	store       *memory.Store
	matches     *memory.MatchRepository
	bets        *memory.BetRepository
	users       *memory.UserRepository
	leaderboard *memory.LeaderboardRepository
	scoring     *memory.ScoringRepository
}

func newPoolFixture(seed memory.Seed) poolFixture {
	store := memory.NewStore(seed)
	return poolFixture{
		store:       store,
		matches:     memory.NewMatchRepository(store),
		bets:        memory.NewBetRepository(store),
		users:       memory.NewUserRepository(store),
		leaderboard: memory.NewLeaderboardRepository(store),
		scoring:     memory.NewScoringRepository(store),
	}
}

func (f poolFixture) matchService(recorder ScoringRecorder) *MatchService {
	return f.matchServiceWith(f.scoring, recorder)
}

func (f poolFixture) matchServiceWith(transactor scoring.Transactor, recorder ScoringRecorder) *MatchService {
	return NewMatchService(f.matches, transactor, recorder, logging.NewNop())
}

func (f poolFixture) betService() *BetService {
	svc := NewBetService(f.matches, f.bets, f.users)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func activeUser(id int64, nickname string) user.User {
	return user.User{ID: id, AccountID: "acc-" + nickname, Nickname: nickname, Activated: true}
}

func kickedOffMatch(id int64, odds match.Odds) match.Match {
	return match.Match{
		ID:        id,
		HomeTeam:  "Home",
		AwayTeam:  "Away",
		KickoffAt: fixedNow.Add(-2 * time.Hour),
		Odds:      odds,
	}
}

func openMatch(id int64) match.Match {
	return match.Match{
		ID:        id,
		HomeTeam:  "Home",
		AwayTeam:  "Away",
		KickoffAt: fixedNow.Add(3 * time.Hour),
	}
}

func placedBet(id, userID, matchID int64, betType bet.Type, points string) bet.Bet {
	return bet.Bet{ID: id, UserID: userID, MatchID: matchID, Type: betType, PointsEarned: dec(points)}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func intPtr(v int) *int {
	return &v
}

type recordedScoring struct {
	outcome    string
	betsScored int
}

type recorderStub struct {
	mu    sync.Mutex
	calls []recordedScoring
}

func (r *recorderStub) ObserveScoring(outcome string, betsScored int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedScoring{outcome: outcome, betsScored: betsScored})
}

type countingTransactor struct {
	calls int
}

func (t *countingTransactor) WithinTx(context.Context, func(context.Context, scoring.Store) error) error {
	t.calls++
	return nil
}

// failingPointsTransactor runs the real transaction but fails the bulk
// points write, which must roll back everything written before it.
type failingPointsTransactor struct {
	next scoring.Transactor
	err  error
}

func (t failingPointsTransactor) WithinTx(ctx context.Context, fn func(context.Context, scoring.Store) error) error {
	return t.next.WithinTx(ctx, func(ctx context.Context, store scoring.Store) error {
		return fn(ctx, failingPointsStore{Store: store, err: t.err})
	})
}

type failingPointsStore struct {
	scoring.Store
	err error
}

func (s failingPointsStore) UpdateBetPoints(context.Context, []scoring.BetPoints) error {
	return s.err
}
