package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// MatchBets is what a caller may see of the bets on one match. Before
// kickoff it holds only the caller's own bet.
type MatchBets struct {
	Match      match.Match
	Revealed   bool
	Bets       []bet.Revealed
	AllPlayers []string
}

type BetService struct {
	matchRepo match.Repository
	betRepo   bet.Repository
	userRepo  user.Repository
	now       func() time.Time
}

func NewBetService(matchRepo match.Repository, betRepo bet.Repository, userRepo user.Repository) *BetService {
	return &BetService{
		matchRepo: matchRepo,
		betRepo:   betRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

func (s *BetService) PlaceBet(ctx context.Context, caller user.User, matchID int64, rawType string) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.PlaceBet")
	defer span.End()

	if err := requireActivated(caller); err != nil {
		return bet.Bet{}, err
	}
	betType, err := parseBetType(rawType)
	if err != nil {
		return bet.Bet{}, err
	}

	item, err := s.openMatch(ctx, matchID)
	if err != nil {
		return bet.Bet{}, err
	}

	created, err := s.betRepo.Create(ctx, bet.Bet{
		UserID:  caller.ID,
		MatchID: item.ID,
		Type:    betType,
	})
	if err != nil {
		if errors.Is(err, bet.ErrDuplicate) {
			return bet.Bet{}, fmt.Errorf("%w: match=%d", ErrDuplicateBet, matchID)
		}
		return bet.Bet{}, fmt.Errorf("create bet: %w", err)
	}
	return created, nil
}

func (s *BetService) ChangeBet(ctx context.Context, caller user.User, betID int64, rawType string) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.ChangeBet", attribute.Int64("bet.id", betID))
	defer span.End()

	betType, err := parseBetType(rawType)
	if err != nil {
		return bet.Bet{}, err
	}

	current, err := s.ownedOpenBet(ctx, caller, betID)
	if err != nil {
		return bet.Bet{}, err
	}
	if current.Type == betType {
		return current, nil
	}

	updated, err := s.betRepo.UpdateType(ctx, betID, betType)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("update bet=%d: %w", betID, err)
	}
	return updated, nil
}

func (s *BetService) DeleteBet(ctx context.Context, caller user.User, betID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.DeleteBet", attribute.Int64("bet.id", betID))
	defer span.End()

	if _, err := s.ownedOpenBet(ctx, caller, betID); err != nil {
		return err
	}
	if err := s.betRepo.Delete(ctx, betID); err != nil {
		return fmt.Errorf("delete bet=%d: %w", betID, err)
	}
	return nil
}

// ListMatchBets reveals every bet on a match together with the full list of
// activated nicknames once the match has kicked off.
func (s *BetService) ListMatchBets(ctx context.Context, caller user.User, matchID int64) (MatchBets, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.ListMatchBets", attribute.Int64("match.id", matchID))
	defer span.End()

	item, err := s.getMatch(ctx, matchID)
	if err != nil {
		return MatchBets{}, err
	}

	if item.IsOpen(s.now()) {
		out := MatchBets{Match: item, Bets: []bet.Revealed{}}
		own, exists, err := s.betRepo.GetByUserAndMatch(ctx, caller.ID, matchID)
		if err != nil {
			return MatchBets{}, fmt.Errorf("get own bet for match=%d: %w", matchID, err)
		}
		if exists {
			out.Bets = append(out.Bets, bet.Revealed{Bet: own, Nickname: caller.Nickname})
		}
		return out, nil
	}

	var (
		revealed []bet.Revealed
		players  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.betRepo.ListRevealedByMatch(gctx, matchID)
		if err != nil {
			return fmt.Errorf("list bets for match=%d: %w", matchID, err)
		}
		revealed = items
		return nil
	})
	g.Go(func() error {
		items, err := s.userRepo.ListActivatedNicknames(gctx)
		if err != nil {
			return fmt.Errorf("list activated nicknames: %w", err)
		}
		players = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return MatchBets{}, err
	}

	if revealed == nil {
		revealed = []bet.Revealed{}
	}
	if players == nil {
		players = []string{}
	}
	return MatchBets{Match: item, Revealed: true, Bets: revealed, AllPlayers: players}, nil
}

// ownedOpenBet applies the guards shared by change and delete: the bet
// must exist, its match must not have kicked off and the caller must own it.
func (s *BetService) ownedOpenBet(ctx context.Context, caller user.User, betID int64) (bet.Bet, error) {
	if betID <= 0 {
		return bet.Bet{}, fmt.Errorf("%w: bet id must be positive", ErrInvalidInput)
	}

	current, exists, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get bet=%d: %w", betID, err)
	}
	if !exists {
		return bet.Bet{}, fmt.Errorf("%w: bet=%d", ErrNotFound, betID)
	}

	if _, err := s.openMatch(ctx, current.MatchID); err != nil {
		return bet.Bet{}, err
	}
	if current.UserID != caller.ID {
		return bet.Bet{}, fmt.Errorf("%w: bet=%d belongs to another user", ErrForbidden, betID)
	}
	return current, nil
}

func (s *BetService) openMatch(ctx context.Context, matchID int64) (match.Match, error) {
	item, err := s.getMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if !item.IsOpen(s.now()) {
		return match.Match{}, fmt.Errorf("%w: match=%d", ErrBetLocked, matchID)
	}
	return item, nil
}

func (s *BetService) getMatch(ctx context.Context, matchID int64) (match.Match, error) {
	if matchID <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be positive", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match=%d: %w", matchID, err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}
	return item, nil
}

func parseBetType(raw string) (bet.Type, error) {
	betType := bet.Type(strings.ToUpper(strings.TrimSpace(raw)))
	if !betType.Valid() {
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidBetType, raw)
	}
	return betType, nil
}

func requireActivated(caller user.User) error {
	if !caller.Activated {
		return fmt.Errorf("%w: user=%d is not activated", ErrForbidden, caller.ID)
	}
	return nil
}
