package memory

import (
	"time"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"github.com/shopspring/decimal"
)

// Seed is the initial content of a Store.
type Seed struct {
	Users   []user.User
	Matches []match.Match
	Bets    []bet.Bet
}

const (
	DemoAccountAdmin = "acc-admin"
	DemoAccountAlice = "acc-alice"
	DemoAccountBob   = "acc-bob"
	DemoAccountCarol = "acc-carol"
	DemoAccountDave  = "acc-dave"
)

func odds(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// DemoSeed returns a small group stage around now: two matches already
// kicked off and two still open for bets. Dave is not activated yet.
func DemoSeed(now time.Time) Seed {
	now = now.UTC().Truncate(time.Minute)

	return Seed{
		Users: []user.User{
			{ID: 1, AccountID: DemoAccountAdmin, Nickname: "admin", Admin: true, Activated: true},
			{ID: 2, AccountID: DemoAccountAlice, Nickname: "alice", Activated: true},
			{ID: 3, AccountID: DemoAccountBob, Nickname: "bob", Activated: true},
			{ID: 4, AccountID: DemoAccountCarol, Nickname: "carol", Activated: true},
			{ID: 5, AccountID: DemoAccountDave, Nickname: "dave"},
		},
		Matches: []match.Match{
			{
				ID:         1,
				HomeTeam:   "Germany",
				AwayTeam:   "Scotland",
				KickoffAt:  now.Add(-26 * time.Hour),
				GroupLabel: "Group A",
				Odds: match.Odds{
					Home:     odds("1.35"),
					Draw:     odds("5.20"),
					Away:     odds("9.50"),
					HomeDraw: odds("1.05"),
					DrawAway: odds("3.40"),
					HomeAway: odds("1.15"),
				},
			},
			{
				ID:         2,
				HomeTeam:   "Hungary",
				AwayTeam:   "Switzerland",
				KickoffAt:  now.Add(-2 * time.Hour),
				GroupLabel: "Group A",
				Odds: match.Odds{
					Home: odds("3.60"),
					Draw: odds("3.25"),
					Away: odds("2.10"),
				},
			},
			{
				ID:         3,
				HomeTeam:   "Spain",
				AwayTeam:   "Croatia",
				KickoffAt:  now.Add(22 * time.Hour),
				GroupLabel: "Group B",
				Odds: match.Odds{
					Home:     odds("2.05"),
					Draw:     odds("3.30"),
					Away:     odds("3.80"),
					HomeDraw: odds("1.30"),
					DrawAway: odds("1.75"),
					HomeAway: odds("1.33"),
				},
			},
			{
				ID:         4,
				HomeTeam:   "Italy",
				AwayTeam:   "Albania",
				KickoffAt:  now.Add(46 * time.Hour),
				GroupLabel: "Group B",
			},
		},
		Bets: []bet.Bet{
			{ID: 1, UserID: 2, MatchID: 1, Type: bet.TypeHome},
			{ID: 2, UserID: 3, MatchID: 1, Type: bet.TypeDraw},
			{ID: 3, UserID: 4, MatchID: 1, Type: bet.TypeHomeAway},
			{ID: 4, UserID: 2, MatchID: 2, Type: bet.TypeAway},
			{ID: 5, UserID: 3, MatchID: 2, Type: bet.TypeHome},
			{ID: 6, UserID: 4, MatchID: 3, Type: bet.TypeHomeDraw},
		},
	}
}
