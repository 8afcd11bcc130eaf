package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"github.com/riskibarqy/bet-pool/internal/infrastructure/repository/memory"
	matchmock "github.com/riskibarqy/bet-pool/internal/mocks/domain/match"
	"github.com/riskibarqy/bet-pool/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func scoreAndReadBet(t *testing.T, betType bet.Type, odds match.Odds, home, away int) bet.Bet {
	t.Helper()

	f := newPoolFixture(memory.Seed{
		Users:   []user.User{activeUser(1, "alice")},
		Matches: []match.Match{kickedOffMatch(1, odds)},
		Bets:    []bet.Bet{placedBet(1, 1, 1, betType, "0")},
	})

	result, err := f.matchService(nil).ScoreMatch(context.Background(), ScoreMatchInput{
		MatchID:   1,
		HomeScore: intPtr(home),
		AwayScore: intPtr(away),
	})
	if err != nil {
		t.Fatalf("score match: %v", err)
	}
	if result.PlayersScored != 1 {
		t.Fatalf("unexpected players scored: got=%d want=1", result.PlayersScored)
	}

	got, exists, err := f.bets.GetByID(context.Background(), 1)
	if err != nil || !exists {
		t.Fatalf("get bet: exists=%v err=%v", exists, err)
	}
	return got
}

func TestMatchService_ScoreMatch_HomeWinPaysHomeOdds(t *testing.T) {
	got := scoreAndReadBet(t, bet.TypeHome, match.Odds{Home: decPtr("2.50")}, 2, 1)
	if !got.PointsEarned.Equal(dec("2.50")) {
		t.Fatalf("unexpected points: got=%s want=2.50", got.PointsEarned)
	}
}

func TestMatchService_ScoreMatch_LosingBetEarnsZero(t *testing.T) {
	got := scoreAndReadBet(t, bet.TypeHome, match.Odds{Home: decPtr("2.50")}, 1, 2)
	if !got.PointsEarned.IsZero() {
		t.Fatalf("unexpected points: got=%s want=0", got.PointsEarned)
	}
}

func TestMatchService_ScoreMatch_DoubleChanceCoversDraw(t *testing.T) {
	got := scoreAndReadBet(t, bet.TypeHomeDraw, match.Odds{HomeDraw: decPtr("1.25")}, 1, 1)
	if !got.PointsEarned.Equal(dec("1.25")) {
		t.Fatalf("unexpected points: got=%s want=1.25", got.PointsEarned)
	}
}

func TestMatchService_ScoreMatch_AlreadyScoredLeavesEverythingUntouched(t *testing.T) {
	scored := kickedOffMatch(1, match.Odds{Home: decPtr("1.80"), Draw: decPtr("3.10")})
	scored.HomeScore = intPtr(3)
	scored.AwayScore = intPtr(0)

	f := newPoolFixture(memory.Seed{
		Users:   []user.User{activeUser(1, "alice"), activeUser(2, "bob")},
		Matches: []match.Match{scored},
		Bets: []bet.Bet{
			placedBet(1, 1, 1, bet.TypeHome, "1.80"),
			placedBet(2, 2, 1, bet.TypeDraw, "0"),
		},
	})
	recorder := &recorderStub{}

	_, err := f.matchService(recorder).ScoreMatch(context.Background(), ScoreMatchInput{
		MatchID:   1,
		HomeScore: intPtr(1),
		AwayScore: intPtr(1),
	})
	if !errors.Is(err, ErrAlreadyScored) {
		t.Fatalf("expected ErrAlreadyScored, got %v", err)
	}

	item, _, _ := f.matches.GetByID(context.Background(), 1)
	if *item.HomeScore != 3 || *item.AwayScore != 0 {
		t.Fatalf("score changed: got=%d-%d want=3-0", *item.HomeScore, *item.AwayScore)
	}
	for id, want := range map[int64]string{1: "1.80", 2: "0"} {
		got, _, _ := f.bets.GetByID(context.Background(), id)
		if !got.PointsEarned.Equal(dec(want)) {
			t.Fatalf("bet=%d points changed: got=%s want=%s", id, got.PointsEarned, want)
		}
	}
	for _, id := range []int64{1, 2} {
		u, _, _ := f.users.GetByID(context.Background(), id)
		if u.PreviousRank != nil {
			t.Fatalf("user=%d previous rank written on rejected scoring: %d", id, *u.PreviousRank)
		}
	}
	if diff := cmp.Diff([]recordedScoring{{outcome: ScoringOutcomeRejected}}, recorder.calls, cmp.AllowUnexported(recordedScoring{})); diff != "" {
		t.Fatalf("recorder mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchService_ScoreMatch_SnapshotsRanksBeforeApplyingPoints(t *testing.T) {
	f := newPoolFixture(memory.Seed{
		Users: []user.User{activeUser(1, "alice"), activeUser(2, "bob"), activeUser(3, "carol")},
		Matches: []match.Match{
			kickedOffMatch(1, match.Odds{}),
			kickedOffMatch(2, match.Odds{Home: decPtr("20.00"), Away: decPtr("1.20")}),
		},
		Bets: []bet.Bet{
			placedBet(1, 1, 1, bet.TypeHome, "10"),
			placedBet(2, 3, 1, bet.TypeHome, "5"),
			placedBet(3, 2, 2, bet.TypeHome, "0"),
			placedBet(4, 1, 2, bet.TypeAway, "0"),
		},
	})

	result, err := f.matchService(nil).ScoreMatch(context.Background(), ScoreMatchInput{
		MatchID:   2,
		HomeScore: intPtr(1),
		AwayScore: intPtr(0),
	})
	if err != nil {
		t.Fatalf("score match: %v", err)
	}
	if result.PlayersScored != 2 {
		t.Fatalf("unexpected players scored: got=%d want=2", result.PlayersScored)
	}
	if !result.Match.IsScored() || *result.Match.HomeScore != 1 || *result.Match.AwayScore != 0 {
		t.Fatalf("unexpected match in result: %+v", result.Match)
	}

	entries, err := NewLeaderboardService(f.leaderboard).GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}

	type row struct {
		Nickname string
		Position int
		Previous int
		Movement leaderboard.RankMovement
	}
	got := make([]row, 0, len(entries))
	for _, entry := range entries {
		if entry.PreviousPosition == nil {
			t.Fatalf("missing previous position for %s", entry.Nickname)
		}
		got = append(got, row{entry.Nickname, entry.Position, *entry.PreviousPosition, entry.Movement})
	}
	want := []row{
		{"bob", 1, 3, leaderboard.RankMovementUp},
		{"alice", 2, 1, leaderboard.RankMovementDown},
		{"carol", 3, 2, leaderboard.RankMovementDown},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("leaderboard mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchService_ScoreMatch_RejectsInvalidScoresWithoutTouchingStorage(t *testing.T) {
	tests := []struct {
		name  string
		input ScoreMatchInput
		want  error
	}{
		{name: "missing home", input: ScoreMatchInput{MatchID: 1, AwayScore: intPtr(1)}, want: ErrMissingScore},
		{name: "missing both", input: ScoreMatchInput{MatchID: 1}, want: ErrMissingScore},
		{name: "negative away", input: ScoreMatchInput{MatchID: 1, HomeScore: intPtr(0), AwayScore: intPtr(-1)}, want: ErrNegativeScore},
		{name: "bad match id", input: ScoreMatchInput{HomeScore: intPtr(1), AwayScore: intPtr(1)}, want: ErrInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			transactor := &countingTransactor{}
			svc := NewMatchService(nil, transactor, nil, logging.NewNop())

			_, err := svc.ScoreMatch(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected validation error to wrap ErrInvalidInput, got %v", err)
			}
			if transactor.calls != 0 {
				t.Fatalf("storage touched on invalid input: calls=%d", transactor.calls)
			}
		})
	}
}

func TestMatchService_ScoreMatch_UnknownMatch(t *testing.T) {
	f := newPoolFixture(memory.Seed{})

	_, err := f.matchService(nil).ScoreMatch(context.Background(), ScoreMatchInput{
		MatchID:   42,
		HomeScore: intPtr(0),
		AwayScore: intPtr(0),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_ScoreMatch_RollsBackOnPersistenceFailure(t *testing.T) {
	f := newPoolFixture(memory.Seed{
		Users:   []user.User{activeUser(1, "alice")},
		Matches: []match.Match{kickedOffMatch(1, match.Odds{Home: decPtr("2.00")})},
		Bets:    []bet.Bet{placedBet(1, 1, 1, bet.TypeHome, "0")},
	})
	boom := errors.New("connection reset")
	recorder := &recorderStub{}
	svc := f.matchServiceWith(failingPointsTransactor{next: f.scoring, err: boom}, recorder)

	_, err := svc.ScoreMatch(context.Background(), ScoreMatchInput{
		MatchID:   1,
		HomeScore: intPtr(2),
		AwayScore: intPtr(0),
	})
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected original cause to be kept, got %v", err)
	}

	item, _, _ := f.matches.GetByID(context.Background(), 1)
	if item.IsScored() {
		t.Fatalf("score persisted despite rollback")
	}
	u, _, _ := f.users.GetByID(context.Background(), 1)
	if u.PreviousRank != nil {
		t.Fatalf("previous rank persisted despite rollback: %d", *u.PreviousRank)
	}
	if len(recorder.calls) != 1 || recorder.calls[0].outcome != ScoringOutcomeFailed {
		t.Fatalf("unexpected recorder calls: %+v", recorder.calls)
	}
}

func TestMatchService_ScoreMatch_LogsFailureWithStack(t *testing.T) {
	f := newPoolFixture(memory.Seed{
		Users:   []user.User{activeUser(1, "alice")},
		Matches: []match.Match{kickedOffMatch(1, match.Odds{Home: decPtr("2.00")})},
		Bets:    []bet.Bet{placedBet(1, 1, 1, bet.TypeHome, "0")},
	})
	core, logs := observer.New(zap.ErrorLevel)
	transactor := failingPointsTransactor{next: f.scoring, err: errors.New("connection reset")}
	svc := NewMatchService(f.matches, transactor, nil, logging.FromZap(zap.New(core)))

	_, err := svc.ScoreMatch(context.Background(), ScoreMatchInput{
		MatchID:   1,
		HomeScore: intPtr(1),
		AwayScore: intPtr(0),
	})
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}

	entries := logs.FilterMessage("score match failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one failure log, got %d", len(entries))
	}
	logged, _ := entries[0].ContextMap()["error"].(string)
	if !strings.Contains(logged, "connection reset") || !strings.Contains(logged, "match_service.go") {
		t.Fatalf("expected logged error to carry cause and stack, got %q", logged)
	}
}

func TestMatchService_ScoreMatch_ConcurrentSubmissionsScoreOnce(t *testing.T) {
	f := newPoolFixture(memory.Seed{
		Users:   []user.User{activeUser(1, "alice"), activeUser(2, "bob")},
		Matches: []match.Match{kickedOffMatch(1, match.Odds{Draw: decPtr("3.00")})},
		Bets: []bet.Bet{
			placedBet(1, 1, 1, bet.TypeDraw, "0"),
			placedBet(2, 2, 1, bet.TypeHome, "0"),
		},
	})
	recorder := &recorderStub{}
	svc := f.matchService(recorder)

	const workers = 8
	var (
		wg       conc.WaitGroup
		mu       sync.Mutex
		success  int
		rejected int
	)
	for i := 0; i < workers; i++ {
		home := i
		wg.Go(func() {
			_, err := svc.ScoreMatch(context.Background(), ScoreMatchInput{
				MatchID:   1,
				HomeScore: intPtr(home),
				AwayScore: intPtr(home),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, ErrAlreadyScored):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	wg.Wait()

	if success != 1 || rejected != workers-1 {
		t.Fatalf("unexpected outcome split: success=%d rejected=%d", success, rejected)
	}
	got, _, _ := f.bets.GetByID(context.Background(), 1)
	if !got.PointsEarned.Equal(dec("3.00")) {
		t.Fatalf("draw bet not paid exactly once: got=%s", got.PointsEarned)
	}
	if len(recorder.calls) != workers {
		t.Fatalf("expected one observation per submission, got %d", len(recorder.calls))
	}
}

func TestMatchService_ScoreMatch_NoBetsStillScores(t *testing.T) {
	f := newPoolFixture(memory.Seed{
		Matches: []match.Match{kickedOffMatch(1, match.Odds{})},
	})

	result, err := f.matchService(nil).ScoreMatch(context.Background(), ScoreMatchInput{
		MatchID:   1,
		HomeScore: intPtr(0),
		AwayScore: intPtr(0),
	})
	if err != nil {
		t.Fatalf("score match: %v", err)
	}
	if result.PlayersScored != 0 {
		t.Fatalf("unexpected players scored: %d", result.PlayersScored)
	}
	item, _, _ := f.matches.GetByID(context.Background(), 1)
	if !item.IsScored() {
		t.Fatalf("expected match to be scored")
	}
}

func TestMatchService_UpdateOdds_MergesProvidedValuesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	svc := NewMatchService(matchRepo, nil, nil, logging.NewNop())

	current := kickedOffMatch(3, match.Odds{Home: decPtr("2.00"), Away: decPtr("3.50")})
	matchRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(3)).
		Return(current, true, nil).
		Once()
	matchRepo.
		On("UpdateOdds", mock.Anything, int64(3), mock.MatchedBy(func(o match.Odds) bool {
			return o.Home.Equal(dec("2.00")) && o.Draw.Equal(dec("3.15")) && o.Away.Equal(dec("3.50")) && o.HomeDraw == nil
		})).
		Return(nil).
		Once()

	got, err := svc.UpdateOdds(ctx, 3, match.OddsUpdate{Draw: decPtr("3.149")})
	if err != nil {
		t.Fatalf("update odds: %v", err)
	}
	if got.Odds.Draw == nil || !got.Odds.Draw.Equal(dec("3.15")) {
		t.Fatalf("unexpected draw odds: %v", got.Odds.Draw)
	}
}

func TestMatchService_UpdateOdds_RejectsOutOfRangeUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	svc := NewMatchService(matchRepo, nil, nil, logging.NewNop())

	for _, raw := range []string{"1.00", "100.00", "0.50", "1.004", "99.996"} {
		_, err := svc.UpdateOdds(context.Background(), 3, match.OddsUpdate{Home: decPtr(raw)})
		if !errors.Is(err, ErrInvalidOdds) || !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("odds=%s: expected ErrInvalidOdds, got %v", raw, err)
		}
	}

	_, err := svc.UpdateOdds(context.Background(), 3, match.OddsUpdate{})
	if !errors.Is(err, ErrInvalidOdds) {
		t.Fatalf("expected ErrInvalidOdds for empty update, got %v", err)
	}
}

func TestMatchService_UpdateOdds_UnknownMatchUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	svc := NewMatchService(matchRepo, nil, nil, logging.NewNop())

	matchRepo.
		On("GetByID", mock.Anything, int64(9)).
		Return(match.Match{}, false, nil).
		Once()

	_, err := svc.UpdateOdds(context.Background(), 9, match.OddsUpdate{Home: decPtr("2.00")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
