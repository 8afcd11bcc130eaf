package httpapi

import (
	"net/http"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
)

type placeBetRequest struct {
	MatchID int64  `json:"matchId" validate:"required,gt=0"`
	BetType string `json:"betType" validate:"required,max=2"`
}

type changeBetRequest struct {
	BetType string `json:"betType" validate:"required,max=2"`
}

type matchBetsMetaDTO struct {
	Count      int      `json:"count"`
	AllPlayers []string `json:"allPlayers,omitempty"`
}

func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBet")
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req placeBetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.betService.PlaceBet(ctx, caller, req.MatchID, req.BetType)
	if err != nil {
		h.logger.WarnContext(ctx, "place bet failed", "user_id", caller.ID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, betToDTO(item))
}

func (h *Handler) ChangeBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChangeBet")
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	betID, err := pathID(r, "betID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req changeBetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.betService.ChangeBet(ctx, caller, betID, req.BetType)
	if err != nil {
		h.logger.WarnContext(ctx, "change bet failed", "user_id", caller.ID, "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, betToDTO(item))
}

func (h *Handler) DeleteBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteBet")
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	betID, err := pathID(r, "betID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.betService.DeleteBet(ctx, caller, betID); err != nil {
		h.logger.WarnContext(ctx, "delete bet failed", "user_id", caller.ID, "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListMatchBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchBets")
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.betService.ListMatchBets(ctx, caller, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match bets failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]revealedBetDTO, 0, len(result.Bets))
	for _, item := range result.Bets {
		items = append(items, revealedBetToDTO(item))
	}

	meta := matchBetsMetaDTO{Count: len(items)}
	if result.Revealed {
		meta.AllPlayers = result.AllPlayers
	}
	writeSuccessWithMeta(w, http.StatusOK, items, meta)
}

func revealedBetToDTO(item bet.Revealed) revealedBetDTO {
	return revealedBetDTO{
		betDTO:   betToDTO(item.Bet),
		Nickname: item.Nickname,
	}
}
