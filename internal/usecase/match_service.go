package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/scoring"
	"github.com/riskibarqy/bet-pool/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	ScoringOutcomeScored   = "scored"
	ScoringOutcomeRejected = "rejected"
	ScoringOutcomeFailed   = "failed"
)

// ScoringRecorder receives one observation per score submission.
type ScoringRecorder interface {
	ObserveScoring(outcome string, betsScored int, elapsed time.Duration)
}

type noopScoringRecorder struct{}

func (noopScoringRecorder) ObserveScoring(string, int, time.Duration) {}

type ScoreMatchInput struct {
	MatchID   int64
	HomeScore *int
	AwayScore *int
}

type ScoreResult struct {
	Match         match.Match
	PlayersScored int
}

type MatchService struct {
	matchRepo  match.Repository
	transactor scoring.Transactor
	recorder   ScoringRecorder
	logger     *logging.Logger
	now        func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	transactor scoring.Transactor,
	recorder ScoringRecorder,
	logger *logging.Logger,
) *MatchService {
	if recorder == nil {
		recorder = noopScoringRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matchRepo:  matchRepo,
		transactor: transactor,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *MatchService) ListMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches")
	defer span.End()

	items, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID int64) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch")
	defer span.End()

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

// UpdateOdds merges the provided odds into the match. It never touches
// scores, so odds stay editable after a match has been scored.
func (s *MatchService) UpdateOdds(ctx context.Context, matchID int64, update match.OddsUpdate) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateOdds", attribute.Int64("match.id", matchID))
	defer span.End()

	if update.IsEmpty() {
		return match.Match{}, fmt.Errorf("%w: %w: no odds provided", ErrInvalidInput, ErrInvalidOdds)
	}
	if _, err := update.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %w: %w", ErrInvalidInput, ErrInvalidOdds, err)
	}

	item, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}

	item.Odds = update.Apply(item.Odds)
	if err := s.matchRepo.UpdateOdds(ctx, matchID, item.Odds); err != nil {
		return match.Match{}, fmt.Errorf("update odds for match=%d: %w", matchID, err)
	}

	s.logger.InfoContext(ctx, "match odds updated", "match_id", matchID)
	return item, nil
}

// ScoreMatch records the final score of a match and settles every bet on it
// inside one transaction. Previous ranks are captured before any points
// change, so movement indicators describe this scoring event.
func (s *MatchService) ScoreMatch(ctx context.Context, input ScoreMatchInput) (ScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ScoreMatch", attribute.Int64("match.id", input.MatchID))
	defer span.End()

	started := s.now()
	home, away, err := validateScores(input)
	if err != nil {
		s.recorder.ObserveScoring(ScoringOutcomeRejected, 0, s.now().Sub(started))
		return ScoreResult{}, err
	}

	var result ScoreResult
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, store scoring.Store) error {
		item, exists, err := store.LockMatch(ctx, input.MatchID)
		if err != nil {
			return fmt.Errorf("lock match=%d: %w", input.MatchID, err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%d", ErrNotFound, input.MatchID)
		}
		if item.IsScored() {
			return fmt.Errorf("%w: match=%d", ErrAlreadyScored, input.MatchID)
		}

		if err := store.SetMatchScore(ctx, input.MatchID, home, away); err != nil {
			if errors.Is(err, scoring.ErrScoreAlreadySet) {
				return fmt.Errorf("%w: match=%d", ErrAlreadyScored, input.MatchID)
			}
			return fmt.Errorf("set score for match=%d: %w", input.MatchID, err)
		}
		item.HomeScore = &home
		item.AwayScore = &away

		if _, err := leaderboard.SnapshotPreviousRanks(ctx, store); err != nil {
			return err
		}

		scored, err := scoring.ScoreAllBets(ctx, item, store)
		if err != nil {
			return err
		}

		result = ScoreResult{Match: item, PlayersScored: scored}
		return nil
	})

	elapsed := s.now().Sub(started)
	switch {
	case err == nil:
		s.recorder.ObserveScoring(ScoringOutcomeScored, result.PlayersScored, elapsed)
		s.logger.InfoContext(ctx, "match scored",
			"match_id", input.MatchID,
			"home_score", home,
			"away_score", away,
			"bets_scored", result.PlayersScored,
		)
		return result, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAlreadyScored):
		s.recorder.ObserveScoring(ScoringOutcomeRejected, 0, elapsed)
		return ScoreResult{}, err
	default:
		failure := persistenceFailure(err)
		s.recorder.ObserveScoring(ScoringOutcomeFailed, 0, elapsed)
		s.logger.ErrorContext(ctx, "score match failed", "match_id", input.MatchID, "error", fmt.Sprintf("%+v", failure))
		return ScoreResult{}, failure
	}
}

func validateScores(input ScoreMatchInput) (int, int, error) {
	if input.MatchID <= 0 {
		return 0, 0, fmt.Errorf("%w: match id must be positive", ErrInvalidInput)
	}
	if input.HomeScore == nil || input.AwayScore == nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrInvalidInput, ErrMissingScore)
	}
	if *input.HomeScore < 0 || *input.AwayScore < 0 {
		return 0, 0, fmt.Errorf("%w: %w", ErrInvalidInput, ErrNegativeScore)
	}
	return *input.HomeScore, *input.AwayScore, nil
}

// persistenceFailure tags a storage error so callers can match it with
// errors.Is. The stack is printed by the %+v verb.
func persistenceFailure(err error) error {
	if errors.Is(err, ErrPersistenceFailure) {
		return err
	}
	return crerr.WithStack(fmt.Errorf("%w: %w", ErrPersistenceFailure, err))
}
