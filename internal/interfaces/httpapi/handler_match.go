package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/usecase"
	"github.com/shopspring/decimal"
)

type scoreMatchRequest struct {
	HomeScore scoreValue `json:"homeScore"`
	AwayScore scoreValue `json:"awayScore"`
}

// scoreValue holds a score sent as a JSON integer or an integer string.
// Any other value leaves it unset so the usecase reports a missing score.
type scoreValue struct {
	value *int
}

func (s *scoreValue) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	s.value = nil
	if n, err := strconv.Atoi(raw); err == nil {
		s.value = &n
	}
	return nil
}

type updateOddsRequest struct {
	OddsHome     *decimal.Decimal `json:"oddsHome"`
	OddsDraw     *decimal.Decimal `json:"oddsDraw"`
	OddsAway     *decimal.Decimal `json:"oddsAway"`
	OddsHomeDraw *decimal.Decimal `json:"oddsHomeDraw"`
	OddsDrawAway *decimal.Decimal `json:"oddsDrawAway"`
	OddsHomeAway *decimal.Decimal `json:"oddsHomeAway"`
}

type scoreMatchMetaDTO struct {
	PlayersScored int `json:"playersScored"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matches, err := h.matchService.ListMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccessWithMeta(w, http.StatusOK, items, countMetaDTO{Count: len(items)})
}

func (h *Handler) ScoreMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScoreMatch")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req scoreMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchService.ScoreMatch(ctx, usecase.ScoreMatchInput{
		MatchID:   matchID,
		HomeScore: req.HomeScore.value,
		AwayScore: req.AwayScore.value,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "score match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccessWithMeta(w, http.StatusOK, matchToDTO(result.Match), scoreMatchMetaDTO{
		PlayersScored: result.PlayersScored,
	})
}

func (h *Handler) UpdateMatchOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchOdds")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateOddsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.UpdateOdds(ctx, matchID, match.OddsUpdate{
		Home:     req.OddsHome,
		Draw:     req.OddsDraw,
		Away:     req.OddsAway,
		HomeDraw: req.OddsHomeDraw,
		DrawAway: req.OddsDrawAway,
		HomeAway: req.OddsHomeAway,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update match odds failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, matchToDTO(item))
}
