package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/bet-pool/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads seed into an empty database. It does nothing once any
// user exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, seed memory.Seed) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users`); err != nil {
		return fmt.Errorf("count users for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, u := range seed.Users {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (id, account_id, nickname, admin, activated)
VALUES (:id, :account_id, :nickname, :admin, :activated)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":         u.ID,
			"account_id": u.AccountID,
			"nickname":   u.Nickname,
			"admin":      u.Admin,
			"activated":  u.Activated,
		})
		if err != nil {
			return fmt.Errorf("bind seed user %s query: %w", u.Nickname, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Nickname, err)
		}
	}

	for _, m := range seed.Matches {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO matches (id, home_team, away_team, kickoff_at, group_label,
	odds_home, odds_draw, odds_away, odds_home_draw, odds_draw_away, odds_home_away)
VALUES (:id, :home_team, :away_team, :kickoff_at, :group_label,
	:odds_home, :odds_draw, :odds_away, :odds_home_draw, :odds_draw_away, :odds_home_away)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":             m.ID,
			"home_team":      m.HomeTeam,
			"away_team":      m.AwayTeam,
			"kickoff_at":     m.KickoffAt,
			"group_label":    stringToNull(m.GroupLabel),
			"odds_home":      decimalPtrToNull(m.Odds.Home),
			"odds_draw":      decimalPtrToNull(m.Odds.Draw),
			"odds_away":      decimalPtrToNull(m.Odds.Away),
			"odds_home_draw": decimalPtrToNull(m.Odds.HomeDraw),
			"odds_draw_away": decimalPtrToNull(m.Odds.DrawAway),
			"odds_home_away": decimalPtrToNull(m.Odds.HomeAway),
		})
		if err != nil {
			return fmt.Errorf("bind seed match %d query: %w", m.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed match %d: %w", m.ID, err)
		}
	}

	for _, b := range seed.Bets {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO bets (id, user_id, match_id, bet_type)
VALUES (:id, :user_id, :match_id, :bet_type)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":       b.ID,
			"user_id":  b.UserID,
			"match_id": b.MatchID,
			"bet_type": string(b.Type),
		})
		if err != nil {
			return fmt.Errorf("bind seed bet %d query: %w", b.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed bet %d: %w", b.ID, err)
		}
	}

	// Explicit ids leave the sequences behind; move them past the seeded rows.
	for _, table := range []string{"users", "matches", "bets"} {
		stmt := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))`, table, table)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset %s id sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
