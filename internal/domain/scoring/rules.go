package scoring

import (
	"context"
	"fmt"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/shopspring/decimal"
)

// WinsBet reports whether betType wins for the final score. Unknown bet
// types never win.
func WinsBet(betType bet.Type, homeScore, awayScore int) bool {
	switch betType {
	case bet.TypeHome:
		return homeScore > awayScore
	case bet.TypeDraw:
		return homeScore == awayScore
	case bet.TypeAway:
		return awayScore > homeScore
	case bet.TypeHomeDraw:
		return homeScore >= awayScore
	case bet.TypeDrawAway:
		return awayScore >= homeScore
	case bet.TypeHomeAway:
		return homeScore != awayScore
	default:
		return false
	}
}

// OddsFor returns the odds field paying out betType, or nil when the field
// is not set or the type is unknown.
func OddsFor(betType bet.Type, odds match.Odds) *decimal.Decimal {
	switch betType {
	case bet.TypeHome:
		return odds.Home
	case bet.TypeDraw:
		return odds.Draw
	case bet.TypeAway:
		return odds.Away
	case bet.TypeHomeDraw:
		return odds.HomeDraw
	case bet.TypeDrawAway:
		return odds.DrawAway
	case bet.TypeHomeAway:
		return odds.HomeAway
	default:
		return nil
	}
}

// PointsForBet pays the stored odds verbatim on a win. Losing bets, winning
// bets without odds and bets on unscored matches earn exactly zero.
func PointsForBet(item bet.Bet, m match.Match) decimal.Decimal {
	if !m.IsScored() {
		return decimal.Zero
	}
	if !WinsBet(item.Type, *m.HomeScore, *m.AwayScore) {
		return decimal.Zero
	}

	odds := OddsFor(item.Type, m.Odds)
	if odds == nil {
		return decimal.Zero
	}
	return *odds
}

// ScoreAllBets computes and stores points for every bet on m and returns how
// many bets were processed. An unscored match is a no-op.
func ScoreAllBets(ctx context.Context, m match.Match, store BetStore) (int, error) {
	if !m.IsScored() {
		return 0, nil
	}

	bets, err := store.ListBetsByMatch(ctx, m.ID)
	if err != nil {
		return 0, fmt.Errorf("list bets for match=%d: %w", m.ID, err)
	}
	if len(bets) == 0 {
		return 0, nil
	}

	points := make([]BetPoints, 0, len(bets))
	for _, item := range bets {
		points = append(points, BetPoints{
			BetID:  item.ID,
			Points: PointsForBet(item, m),
		})
	}

	if err := store.UpdateBetPoints(ctx, points); err != nil {
		return 0, fmt.Errorf("update bet points for match=%d: %w", m.ID, err)
	}
	return len(bets), nil
}
