package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	"github.com/riskibarqy/bet-pool/internal/domain/scoring"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"github.com/shopspring/decimal"
)

var seedNow = time.Date(2026, 6, 14, 18, 0, 0, 0, time.UTC)

func TestMatchRepository_ListOrdersByKickoff(t *testing.T) {
	store := NewStore(DemoSeed(seedNow))
	items, err := NewMatchRepository(store).List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("unexpected match count: %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].KickoffAt.Before(items[i-1].KickoffAt) {
			t.Fatalf("matches not ordered by kickoff: %v before %v", items[i].KickoffAt, items[i-1].KickoffAt)
		}
	}
}

func TestBetRepository_CreateRejectsDuplicate(t *testing.T) {
	store := NewStore(DemoSeed(seedNow))
	repo := NewBetRepository(store)

	created, err := repo.Create(context.Background(), bet.Bet{UserID: 2, MatchID: 3, Type: bet.TypeDraw})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == 0 || !created.PointsEarned.IsZero() {
		t.Fatalf("unexpected created bet: %+v", created)
	}

	_, err = repo.Create(context.Background(), bet.Bet{UserID: 2, MatchID: 3, Type: bet.TypeAway})
	if !errors.Is(err, bet.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepository_ListActivatedNicknames(t *testing.T) {
	store := NewStore(DemoSeed(seedNow))
	names, err := NewUserRepository(store).ListActivatedNicknames(context.Background())
	if err != nil {
		t.Fatalf("ListActivatedNicknames error: %v", err)
	}

	want := []string{"admin", "alice", "bob", "carol"}
	if len(names) != len(want) {
		t.Fatalf("unexpected nicknames: %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected nicknames: %v", names)
		}
	}
}

func TestUserRepository_ListAndSetAdmin(t *testing.T) {
	store := NewStore(Seed{Users: []user.User{
		{ID: 1, Nickname: "Zed", Admin: true, Activated: true},
		{ID: 2, Nickname: "alice", Activated: true},
		{ID: 3, Nickname: "Bob"},
	}})
	repo := NewUserRepository(store)
	ctx := context.Background()

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	got := make([]string, 0, len(users))
	for _, u := range users {
		got = append(got, u.Nickname)
	}
	if strings.Join(got, ",") != "alice,Bob,Zed" {
		t.Fatalf("unexpected order: %v", got)
	}

	updated, exists, err := repo.SetAdmin(ctx, 3, true)
	if err != nil || !exists {
		t.Fatalf("SetAdmin error: %v exists=%v", err, exists)
	}
	if !updated.Admin {
		t.Fatalf("expected admin flag to be set: %+v", updated)
	}
	if stored, _, _ := repo.GetByID(ctx, 3); !stored.Admin {
		t.Fatalf("admin flag not stored: %+v", stored)
	}

	if _, exists, err := repo.SetAdmin(ctx, 42, true); err != nil || exists {
		t.Fatalf("expected missing user, got exists=%v err=%v", exists, err)
	}
}

func TestLeaderboardRepository_ExcludesInactiveUsers(t *testing.T) {
	store := NewStore(DemoSeed(seedNow))
	totals, err := NewLeaderboardRepository(store).ListActivatedTotals(context.Background())
	if err != nil {
		t.Fatalf("ListActivatedTotals error: %v", err)
	}
	if len(totals) != 4 {
		t.Fatalf("expected 4 activated users, got %d", len(totals))
	}
	for _, item := range totals {
		if item.Nickname == "dave" {
			t.Fatalf("inactive user must not be ranked")
		}
		if !item.TotalPoints.IsZero() {
			t.Fatalf("expected zero points before scoring, got %s", item.TotalPoints)
		}
	}
}

func TestScoringRepository_CommitsWrites(t *testing.T) {
	store := NewStore(DemoSeed(seedNow))
	tx := NewScoringRepository(store)

	err := tx.WithinTx(context.Background(), func(ctx context.Context, s scoring.Store) error {
		if err := s.SetMatchScore(ctx, 1, 2, 0); err != nil {
			return err
		}
		if err := s.UpdatePreviousRanks(ctx, []leaderboard.RankSnapshot{{UserID: 2, Rank: 1}}); err != nil {
			return err
		}
		return s.UpdateBetPoints(ctx, []scoring.BetPoints{{BetID: 1, Points: decimal.RequireFromString("1.35")}})
	})
	if err != nil {
		t.Fatalf("WithinTx error: %v", err)
	}

	m, _, _ := NewMatchRepository(store).GetByID(context.Background(), 1)
	if !m.IsScored() || *m.HomeScore != 2 || *m.AwayScore != 0 {
		t.Fatalf("expected committed score, got %+v", m)
	}
	b, _, _ := NewBetRepository(store).GetByID(context.Background(), 1)
	if !b.PointsEarned.Equal(decimal.RequireFromString("1.35")) {
		t.Fatalf("expected committed points, got %s", b.PointsEarned)
	}
	u, _, _ := NewUserRepository(store).GetByID(context.Background(), 2)
	if u.PreviousRank == nil || *u.PreviousRank != 1 {
		t.Fatalf("expected committed previous rank, got %v", u.PreviousRank)
	}
}

func TestScoringRepository_RollsBackOnError(t *testing.T) {
	store := NewStore(DemoSeed(seedNow))
	tx := NewScoringRepository(store)
	boom := errors.New("boom")

	err := tx.WithinTx(context.Background(), func(ctx context.Context, s scoring.Store) error {
		if err := s.SetMatchScore(ctx, 1, 2, 0); err != nil {
			return err
		}
		if err := s.UpdateBetPoints(ctx, []scoring.BetPoints{{BetID: 1, Points: decimal.RequireFromString("1.35")}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	m, _, _ := NewMatchRepository(store).GetByID(context.Background(), 1)
	if m.IsScored() {
		t.Fatalf("expected score to be rolled back")
	}
	b, _, _ := NewBetRepository(store).GetByID(context.Background(), 1)
	if !b.PointsEarned.IsZero() {
		t.Fatalf("expected points to be rolled back, got %s", b.PointsEarned)
	}
}

func TestScoringRepository_SetMatchScoreTwice(t *testing.T) {
	store := NewStore(DemoSeed(seedNow))
	tx := NewScoringRepository(store)

	err := tx.WithinTx(context.Background(), func(ctx context.Context, s scoring.Store) error {
		if err := s.SetMatchScore(ctx, 2, 1, 1); err != nil {
			return err
		}
		return s.SetMatchScore(ctx, 2, 3, 0)
	})
	if !errors.Is(err, scoring.ErrScoreAlreadySet) {
		t.Fatalf("expected ErrScoreAlreadySet, got %v", err)
	}
}
