package httpapi

import (
	"time"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"github.com/shopspring/decimal"
)

type countMetaDTO struct {
	Count int `json:"count"`
}

type matchDTO struct {
	ID           int64    `json:"id"`
	HomeTeam     string   `json:"homeTeam"`
	AwayTeam     string   `json:"awayTeam"`
	KickoffTime  string   `json:"kickoffTime"`
	GroupLabel   *string  `json:"groupLabel"`
	HomeScore    *int     `json:"homeScore"`
	AwayScore    *int     `json:"awayScore"`
	OddsHome     *float64 `json:"oddsHome"`
	OddsDraw     *float64 `json:"oddsDraw"`
	OddsAway     *float64 `json:"oddsAway"`
	OddsHomeDraw *float64 `json:"oddsHomeDraw"`
	OddsDrawAway *float64 `json:"oddsDrawAway"`
	OddsHomeAway *float64 `json:"oddsHomeAway"`
}

type betDTO struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"userId"`
	MatchID      int64   `json:"matchId"`
	BetType      string  `json:"betType"`
	PointsEarned float64 `json:"pointsEarned"`
}

type revealedBetDTO struct {
	betDTO
	Nickname string `json:"nickname"`
}

type leaderboardEntryDTO struct {
	Position         int     `json:"position"`
	UserID           int64   `json:"userId"`
	Nickname         string  `json:"nickname"`
	TotalPoints      float64 `json:"totalPoints"`
	PreviousPosition *int    `json:"previousPosition"`
	Movement         string  `json:"movement"`
}

type userDTO struct {
	ID        int64  `json:"id"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email,omitempty"`
	Admin     bool   `json:"admin"`
	Activated bool   `json:"activated"`
}

func matchToDTO(m match.Match) matchDTO {
	var groupLabel *string
	if m.GroupLabel != "" {
		label := m.GroupLabel
		groupLabel = &label
	}

	return matchDTO{
		ID:           m.ID,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		KickoffTime:  m.KickoffAt.UTC().Format(time.RFC3339),
		GroupLabel:   groupLabel,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		OddsHome:     decimalToFloatPtr(m.Odds.Home),
		OddsDraw:     decimalToFloatPtr(m.Odds.Draw),
		OddsAway:     decimalToFloatPtr(m.Odds.Away),
		OddsHomeDraw: decimalToFloatPtr(m.Odds.HomeDraw),
		OddsDrawAway: decimalToFloatPtr(m.Odds.DrawAway),
		OddsHomeAway: decimalToFloatPtr(m.Odds.HomeAway),
	}
}

func betToDTO(item bet.Bet) betDTO {
	return betDTO{
		ID:           item.ID,
		UserID:       item.UserID,
		MatchID:      item.MatchID,
		BetType:      string(item.Type),
		PointsEarned: item.PointsEarned.InexactFloat64(),
	}
}

func leaderboardEntryToDTO(entry leaderboard.Entry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Position:         entry.Position,
		UserID:           entry.UserID,
		Nickname:         entry.Nickname,
		TotalPoints:      entry.TotalPoints.InexactFloat64(),
		PreviousPosition: entry.PreviousPosition,
		Movement:         string(entry.Movement),
	}
}

func userToDTO(u user.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Nickname:  u.Nickname,
		Admin:     u.Admin,
		Activated: u.Activated,
	}
}

func decimalToFloatPtr(v *decimal.Decimal) *float64 {
	if v == nil {
		return nil
	}
	f := v.InexactFloat64()
	return &f
}
