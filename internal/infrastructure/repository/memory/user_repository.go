package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/bet-pool/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(_ context.Context, userID int64) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[userID]
	if !ok {
		return user.User{}, false, nil
	}
	return u, true, nil
}

func (r *UserRepository) GetByAccountID(_ context.Context, accountID string) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.AccountID == accountID {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) ListActivatedNicknames(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]string, 0, len(r.store.users))
	for _, u := range r.store.users {
		if u.Activated {
			out = append(out, u.Nickname)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out, nil
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]user.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		left, right := strings.ToLower(out[i].Nickname), strings.ToLower(out[j].Nickname)
		if left != right {
			return left < right
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *UserRepository) SetAdmin(_ context.Context, userID int64, admin bool) (user.User, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userID]
	if !ok {
		return user.User{}, false, nil
	}
	u.Admin = admin
	u.UpdatedAt = r.store.now().UTC()
	r.store.users[userID] = u
	return u, true, nil
}
