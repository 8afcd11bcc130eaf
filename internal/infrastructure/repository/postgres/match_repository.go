package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	qb "github.com/riskibarqy/bet-pool/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		OrderBy("kickoff_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	return getMatch(ctx, r.db, matchID, false)
}

func (r *MatchRepository) UpdateOdds(ctx context.Context, matchID int64, odds match.Odds) error {
	query, args, err := qb.Update("matches").
		Set("odds_home", decimalPtrToNull(odds.Home)).
		Set("odds_draw", decimalPtrToNull(odds.Draw)).
		Set("odds_away", decimalPtrToNull(odds.Away)).
		Set("odds_home_draw", decimalPtrToNull(odds.HomeDraw)).
		Set("odds_draw_away", decimalPtrToNull(odds.DrawAway)).
		Set("odds_home_away", decimalPtrToNull(odds.HomeAway)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match odds query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match odds: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update match odds: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update match odds: match=%d not found", matchID)
	}

	return nil
}

func getMatch(ctx context.Context, q sqlx.QueryerContext, matchID int64, forUpdate bool) (match.Match, bool, error) {
	builder := qb.Select(matchColumns...).From("matches").Where(qb.Eq("id", matchID))
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return matchFromRow(row), true, nil
}
