package postgres

import (
	"time"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/shopspring/decimal"
)

var betColumns = []string{
	"id",
	"user_id",
	"match_id",
	"bet_type",
	"points_earned",
	"created_at",
	"updated_at",
}

type betTableModel struct {
	ID           int64           `db:"id"`
	UserID       int64           `db:"user_id"`
	MatchID      int64           `db:"match_id"`
	BetType      string          `db:"bet_type"`
	PointsEarned decimal.Decimal `db:"points_earned"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

type betInsertModel struct {
	UserID  int64  `db:"user_id"`
	MatchID int64  `db:"match_id"`
	BetType string `db:"bet_type"`
}

type revealedBetRow struct {
	betTableModel
	Nickname string `db:"nickname"`
}

func betFromRow(row betTableModel) bet.Bet {
	return bet.Bet{
		ID:           row.ID,
		UserID:       row.UserID,
		MatchID:      row.MatchID,
		Type:         bet.Type(row.BetType),
		PointsEarned: row.PointsEarned,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}
