package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, userID int64) (User, bool, error)
	GetByAccountID(ctx context.Context, accountID string) (User, bool, error)
	// List returns every user ordered case-insensitively by nickname.
	List(ctx context.Context) ([]User, error)
	// ListActivatedNicknames returns nicknames ordered case-insensitively.
	ListActivatedNicknames(ctx context.Context) ([]string, error)
	// SetAdmin stores the admin flag and returns the updated user. The bool
	// is false when no user has that id.
	SetAdmin(ctx context.Context, userID int64, admin bool) (User, bool, error)
}
