package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/bet-pool/internal/domain/user"
)

var userColumns = []string{
	"id",
	"account_id",
	"nickname",
	"admin",
	"activated",
	"previous_rank",
	"created_at",
	"updated_at",
}

type userTableModel struct {
	ID           int64         `db:"id"`
	AccountID    string        `db:"account_id"`
	Nickname     string        `db:"nickname"`
	Admin        bool          `db:"admin"`
	Activated    bool          `db:"activated"`
	PreviousRank sql.NullInt64 `db:"previous_rank"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:           row.ID,
		AccountID:    row.AccountID,
		Nickname:     row.Nickname,
		Admin:        row.Admin,
		Activated:    row.Activated,
		PreviousRank: nullInt64ToIntPtr(row.PreviousRank),
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}
