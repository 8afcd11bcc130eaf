package anubis

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"github.com/riskibarqy/bet-pool/internal/usecase"
)

// StaticVerifier resolves tokens from a fixed token to account id map. It
// lets local runs authenticate without the account service.
type StaticVerifier struct {
	accounts map[string]string
}

func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	accounts := make(map[string]string, len(tokens))
	for token, accountID := range tokens {
		accounts[strings.TrimSpace(token)] = strings.TrimSpace(accountID)
	}
	return &StaticVerifier{accounts: accounts}
}

func (v *StaticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	accountID, ok := v.accounts[strings.TrimSpace(token)]
	if !ok || accountID == "" {
		return user.Principal{}, fmt.Errorf("%w: unknown static token", usecase.ErrUnauthorized)
	}
	return user.Principal{AccountID: accountID}, nil
}
