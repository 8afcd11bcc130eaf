package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
	qb "github.com/riskibarqy/bet-pool/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (user.User, bool, error) {
	return r.getOne(ctx, "id", qb.Eq("id", userID))
}

func (r *UserRepository) GetByAccountID(ctx context.Context, accountID string) (user.User, bool, error) {
	return r.getOne(ctx, "account id", qb.Eq("account_id", accountID))
}

func (r *UserRepository) getOne(ctx context.Context, label string, cond qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns...).From("users").Where(cond).ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user by %s query: %w", label, err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by %s: %w", label, err)
	}

	return userFromRow(row), true, nil
}

func (r *UserRepository) ListActivatedNicknames(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("nickname").From("users").
		Where(qb.Eq("activated", true)).
		OrderBy("LOWER(nickname) ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list activated nicknames query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list activated nicknames: %w", err)
	}
	return out, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select(userColumns...).From("users").
		OrderBy("LOWER(nickname) ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) SetAdmin(ctx context.Context, userID int64, admin bool) (user.User, bool, error) {
	query, args, err := qb.Update("users").
		Set("admin", admin).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", userID)).
		Returning(userColumns...).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build set admin query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("set admin for user=%d: %w", userID, err)
	}
	return userFromRow(row), true, nil
}
