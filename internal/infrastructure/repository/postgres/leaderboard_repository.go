package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	qb "github.com/riskibarqy/bet-pool/internal/platform/querybuilder"
	"github.com/shopspring/decimal"
)

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) ListActivatedTotals(ctx context.Context) ([]leaderboard.Totals, error) {
	return listActivatedTotals(ctx, r.db)
}

type totalsRow struct {
	UserID       int64           `db:"user_id"`
	Nickname     string          `db:"nickname"`
	PreviousRank sql.NullInt64   `db:"previous_rank"`
	TotalPoints  decimal.Decimal `db:"total_points"`
}

func listActivatedTotals(ctx context.Context, q sqlx.QueryerContext) ([]leaderboard.Totals, error) {
	query, args, err := qb.Select(
		"u.id AS user_id",
		"u.nickname",
		"u.previous_rank",
		"COALESCE(SUM(b.points_earned), 0) AS total_points",
	).
		From("users u").
		LeftJoin("bets b ON b.user_id = u.id").
		Where(qb.Eq("u.activated", true)).
		GroupBy("u.id", "u.nickname", "u.previous_rank").
		OrderBy("total_points DESC", "LOWER(u.nickname) ASC", "u.id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list activated totals query: %w", err)
	}

	var rows []totalsRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list activated totals: %w", err)
	}

	out := make([]leaderboard.Totals, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Totals{
			UserID:       row.UserID,
			Nickname:     row.Nickname,
			TotalPoints:  row.TotalPoints,
			PreviousRank: nullInt64ToIntPtr(row.PreviousRank),
		})
	}
	return out, nil
}

func updatePreviousRanks(ctx context.Context, e sqlx.ExecerContext, ranks []leaderboard.RankSnapshot) error {
	if len(ranks) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(ranks))
	values := make([]int64, 0, len(ranks))
	for _, item := range ranks {
		ids = append(ids, item.UserID)
		values = append(values, int64(item.Rank))
	}

	query, args, err := qb.Update("users AS u").
		SetExpr("previous_rank", "v.rank").
		SetExpr("updated_at", "NOW()").
		From("(SELECT unnest(?::bigint[]) AS id, unnest(?::int[]) AS rank) AS v", pq.Array(ids), pq.Array(values)).
		Where(qb.Expr("u.id = v.id")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update previous ranks query: %w", err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update previous ranks: %w", err)
	}

	return nil
}
