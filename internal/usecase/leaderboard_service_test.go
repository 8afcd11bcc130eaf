package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"github.com/riskibarqy/bet-pool/internal/infrastructure/repository/memory"
)

type leaderboardReaderStub struct {
	err error
}

func (s leaderboardReaderStub) ListActivatedTotals(context.Context) ([]leaderboard.Totals, error) {
	return nil, s.err
}

func TestLeaderboardService_ExcludesInactiveUsersAndSharesRanks(t *testing.T) {
	f := newPoolFixture(memory.Seed{
		Users: []user.User{
			activeUser(1, "alice"),
			activeUser(2, "bob"),
			activeUser(3, "carol"),
			{ID: 4, AccountID: "acc-mallory", Nickname: "mallory"},
		},
		Matches: []match.Match{kickedOffMatch(1, match.Odds{}), kickedOffMatch(2, match.Odds{})},
		Bets: []bet.Bet{
			placedBet(1, 1, 1, bet.TypeHome, "30"),
			placedBet(2, 1, 2, bet.TypeHome, "20"),
			placedBet(3, 2, 1, bet.TypeHome, "50"),
			placedBet(4, 3, 1, bet.TypeHome, "30"),
			placedBet(5, 4, 1, bet.TypeHome, "1000"),
		},
	})

	entries, err := NewLeaderboardService(f.leaderboard).GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}

	type row struct {
		Position int
		Nickname string
		Points   string
	}
	got := make([]row, 0, len(entries))
	for _, entry := range entries {
		got = append(got, row{entry.Position, entry.Nickname, entry.TotalPoints.String()})
		if entry.PreviousPosition != nil || entry.Movement != leaderboard.RankMovementNew {
			t.Fatalf("unexpected previous position for %s", entry.Nickname)
		}
	}
	want := []row{
		{1, "alice", "50"},
		{1, "bob", "50"},
		{3, "carol", "30"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("leaderboard mismatch (-want +got):\n%s", diff)
	}
}

func TestLeaderboardService_UsersWithoutBetsHaveZeroPoints(t *testing.T) {
	f := newPoolFixture(memory.Seed{
		Users: []user.User{activeUser(1, "zed"), activeUser(2, "amy")},
	})

	entries, err := NewLeaderboardService(f.leaderboard).GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("unexpected entry count: %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Position != 1 || !entry.TotalPoints.IsZero() {
			t.Fatalf("unexpected entry: %+v", entry)
		}
	}
	if entries[0].Nickname != "amy" {
		t.Fatalf("expected nickname tie-break, got %s first", entries[0].Nickname)
	}
}

func TestLeaderboardService_PropagatesReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewLeaderboardService(leaderboardReaderStub{err: boom}).GetLeaderboard(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected reader error, got %v", err)
	}
}
