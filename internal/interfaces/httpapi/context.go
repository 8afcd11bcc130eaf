package httpapi

import (
	"context"

	"github.com/riskibarqy/bet-pool/internal/domain/user"
)

type contextKey string

const (
	principalContextKey contextKey = "auth_principal"
	callerContextKey    contextKey = "auth_caller"
)

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(user.Principal)
	return p, ok
}

// withCaller stores the pool user resolved from the principal.
func withCaller(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, callerContextKey, u)
}

func callerFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(callerContextKey).(user.User)
	return u, ok
}
