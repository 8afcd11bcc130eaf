package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/scoring"
	qb "github.com/riskibarqy/bet-pool/internal/platform/querybuilder"
)

// ScoringRepository runs score submissions inside one read-committed
// transaction. The match row lock taken by LockMatch serializes concurrent
// submissions for the same match.
type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, store scoring.Store) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin scoring tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &scoringTxStore{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scoring tx: %w", err)
	}
	return nil
}

type scoringTxStore struct {
	tx *sqlx.Tx
}

func (s *scoringTxStore) LockMatch(ctx context.Context, matchID int64) (match.Match, bool, error) {
	return getMatch(ctx, s.tx, matchID, true)
}

func (s *scoringTxStore) SetMatchScore(ctx context.Context, matchID int64, homeScore, awayScore int) error {
	query, args, err := qb.Update("matches").
		Set("home_score", homeScore).
		Set("away_score", awayScore).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", matchID),
			qb.IsNull("home_score"),
			qb.IsNull("away_score"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set match score query: %w", err)
	}

	result, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set match score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected set match score: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set match score match=%d: %w", matchID, scoring.ErrScoreAlreadySet)
	}

	return nil
}

func (s *scoringTxStore) ListBetsByMatch(ctx context.Context, matchID int64) ([]bet.Bet, error) {
	return listBetsByMatch(ctx, s.tx, matchID)
}

func (s *scoringTxStore) UpdateBetPoints(ctx context.Context, points []scoring.BetPoints) error {
	return updateBetPoints(ctx, s.tx, points)
}

func (s *scoringTxStore) ListActivatedTotals(ctx context.Context) ([]leaderboard.Totals, error) {
	return listActivatedTotals(ctx, s.tx)
}

func (s *scoringTxStore) UpdatePreviousRanks(ctx context.Context, ranks []leaderboard.RankSnapshot) error {
	return updatePreviousRanks(ctx, s.tx, ranks)
}
