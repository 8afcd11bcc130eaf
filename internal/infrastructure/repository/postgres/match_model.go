package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/shopspring/decimal"
)

var matchColumns = []string{
	"id",
	"home_team",
	"away_team",
	"kickoff_at",
	"group_label",
	"home_score",
	"away_score",
	"odds_home",
	"odds_draw",
	"odds_away",
	"odds_home_draw",
	"odds_draw_away",
	"odds_home_away",
	"created_at",
	"updated_at",
}

type matchTableModel struct {
	ID           int64               `db:"id"`
	HomeTeam     string              `db:"home_team"`
	AwayTeam     string              `db:"away_team"`
	KickoffAt    time.Time           `db:"kickoff_at"`
	GroupLabel   sql.NullString      `db:"group_label"`
	HomeScore    sql.NullInt64       `db:"home_score"`
	AwayScore    sql.NullInt64       `db:"away_score"`
	OddsHome     decimal.NullDecimal `db:"odds_home"`
	OddsDraw     decimal.NullDecimal `db:"odds_draw"`
	OddsAway     decimal.NullDecimal `db:"odds_away"`
	OddsHomeDraw decimal.NullDecimal `db:"odds_home_draw"`
	OddsDrawAway decimal.NullDecimal `db:"odds_draw_away"`
	OddsHomeAway decimal.NullDecimal `db:"odds_home_away"`
	CreatedAt    time.Time           `db:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at"`
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:         row.ID,
		HomeTeam:   row.HomeTeam,
		AwayTeam:   row.AwayTeam,
		KickoffAt:  row.KickoffAt.UTC(),
		GroupLabel: nullStringValue(row.GroupLabel),
		HomeScore:  nullInt64ToIntPtr(row.HomeScore),
		AwayScore:  nullInt64ToIntPtr(row.AwayScore),
		Odds: match.Odds{
			Home:     nullDecimalToPtr(row.OddsHome),
			Draw:     nullDecimalToPtr(row.OddsDraw),
			Away:     nullDecimalToPtr(row.OddsAway),
			HomeDraw: nullDecimalToPtr(row.OddsHomeDraw),
			DrawAway: nullDecimalToPtr(row.OddsDrawAway),
			HomeAway: nullDecimalToPtr(row.OddsHomeAway),
		},
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}
