package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"go.opentelemetry.io/otel/attribute"
)

// UpdateUserInput carries the fields an admin may change on a user. Nil
// fields are left untouched.
type UpdateUserInput struct {
	UserID int64
	Admin  *bool
}

type UserService struct {
	userRepo user.Repository
}

func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ResolvePrincipal maps an authenticated account onto its pool user. An
// account that was never invited into the pool is forbidden, not unknown.
func (s *UserService) ResolvePrincipal(ctx context.Context, principal user.Principal) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.ResolvePrincipal")
	defer span.End()

	accountID := strings.TrimSpace(principal.AccountID)
	if accountID == "" {
		return user.User{}, fmt.Errorf("%w: principal has no account id", ErrUnauthorized)
	}

	item, exists, err := s.userRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by account=%s: %w", accountID, err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: account=%s is not a pool member", ErrForbidden, accountID)
	}
	return item, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.GetUser")
	defer span.End()

	item, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user=%d: %w", userID, err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%d", ErrNotFound, userID)
	}
	return item, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.ListUsers")
	defer span.End()

	items, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return items, nil
}

// UpdateUser grants or revokes the admin role. An admin can never revoke
// their own role, so the pool always keeps at least the caller as admin.
func (s *UserService) UpdateUser(ctx context.Context, caller user.User, input UpdateUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.UpdateUser", attribute.Int64("user.id", input.UserID))
	defer span.End()

	if input.UserID <= 0 {
		return user.User{}, fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}
	if input.Admin == nil {
		return s.GetUser(ctx, input.UserID)
	}
	if input.UserID == caller.ID && !*input.Admin {
		return user.User{}, fmt.Errorf("%w: %w", ErrForbidden, ErrSelfRoleChange)
	}

	item, exists, err := s.userRepo.SetAdmin(ctx, input.UserID, *input.Admin)
	if err != nil {
		return user.User{}, fmt.Errorf("set admin for user=%d: %w", input.UserID, err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%d", ErrNotFound, input.UserID)
	}
	return item, nil
}
