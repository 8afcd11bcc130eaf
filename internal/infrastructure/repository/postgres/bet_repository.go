package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/scoring"
	qb "github.com/riskibarqy/bet-pool/internal/platform/querybuilder"
)

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) GetByID(ctx context.Context, betID int64) (bet.Bet, bool, error) {
	query, args, err := qb.Select(betColumns...).From("bets").
		Where(qb.Eq("id", betID)).
		ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build get bet by id query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("get bet by id: %w", err)
	}

	return betFromRow(row), true, nil
}

func (r *BetRepository) GetByUserAndMatch(ctx context.Context, userID, matchID int64) (bet.Bet, bool, error) {
	query, args, err := qb.Select(betColumns...).From("bets").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_id", matchID),
		).
		ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build get bet by user and match query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("get bet by user and match: %w", err)
	}

	return betFromRow(row), true, nil
}

func (r *BetRepository) ListRevealedByMatch(ctx context.Context, matchID int64) ([]bet.Revealed, error) {
	columns := make([]string, 0, len(betColumns)+1)
	for _, column := range betColumns {
		columns = append(columns, "b."+column)
	}
	columns = append(columns, "u.nickname")

	query, args, err := qb.Select(columns...).From("bets b").
		Join("users u ON u.id = b.user_id").
		Where(qb.Eq("b.match_id", matchID)).
		OrderBy("LOWER(u.nickname) ASC", "b.id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list revealed bets query: %w", err)
	}

	var rows []revealedBetRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list revealed bets: %w", err)
	}

	out := make([]bet.Revealed, 0, len(rows))
	for _, row := range rows {
		out = append(out, bet.Revealed{
			Bet:      betFromRow(row.betTableModel),
			Nickname: row.Nickname,
		})
	}
	return out, nil
}

func (r *BetRepository) Create(ctx context.Context, item bet.Bet) (bet.Bet, error) {
	insertModel := betInsertModel{
		UserID:  item.UserID,
		MatchID: item.MatchID,
		BetType: string(item.Type),
	}
	query, args, err := qb.InsertModel("bets", insertModel, betColumns...)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("build create bet query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUniqueViolation(err) {
			return bet.Bet{}, fmt.Errorf("create bet user=%d match=%d: %w", item.UserID, item.MatchID, bet.ErrDuplicate)
		}
		return bet.Bet{}, fmt.Errorf("create bet: %w", err)
	}

	return betFromRow(row), nil
}

func (r *BetRepository) UpdateType(ctx context.Context, betID int64, betType bet.Type) (bet.Bet, error) {
	query, args, err := qb.Update("bets").
		Set("bet_type", string(betType)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", betID)).
		Returning(betColumns...).
		ToSQL()
	if err != nil {
		return bet.Bet{}, fmt.Errorf("build update bet type query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return bet.Bet{}, fmt.Errorf("update bet type: %w", err)
	}

	return betFromRow(row), nil
}

func (r *BetRepository) Delete(ctx context.Context, betID int64) error {
	query, args, err := qb.DeleteFrom("bets").Where(qb.Eq("id", betID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete bet query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete bet: %w", err)
	}

	return nil
}

func listBetsByMatch(ctx context.Context, q sqlx.QueryerContext, matchID int64) ([]bet.Bet, error) {
	query, args, err := qb.Select(betColumns...).From("bets").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bets by match query: %w", err)
	}

	var rows []betTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list bets by match: %w", err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, betFromRow(row))
	}
	return out, nil
}

// updateBetPoints writes every bet's points in a single statement by joining
// against unnested id and points arrays.
func updateBetPoints(ctx context.Context, e sqlx.ExecerContext, points []scoring.BetPoints) error {
	if len(points) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(points))
	values := make([]string, 0, len(points))
	for _, item := range points {
		ids = append(ids, item.BetID)
		values = append(values, item.Points.StringFixed(2))
	}

	query, args, err := qb.Update("bets AS b").
		SetExpr("points_earned", "v.points").
		SetExpr("updated_at", "NOW()").
		From("(SELECT unnest(?::bigint[]) AS id, unnest(?::numeric[]) AS points) AS v", pq.Array(ids), pq.Array(values)).
		Where(qb.Expr("b.id = v.id")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update bet points query: %w", err)
	}
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update bet points: %w", err)
	}

	return nil
}
