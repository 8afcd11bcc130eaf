package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"github.com/riskibarqy/bet-pool/internal/platform/logging"
	"github.com/riskibarqy/bet-pool/internal/usecase"
)

type Handler struct {
	matchService       *usecase.MatchService
	betService         *usecase.BetService
	leaderboardService *usecase.LeaderboardService
	userService        *usecase.UserService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	betService *usecase.BetService,
	leaderboardService *usecase.LeaderboardService,
	userService *usecase.UserService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:       matchService,
		betService:         betService,
		leaderboardService: leaderboardService,
		userService:        userService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dto := userToDTO(caller)
	if principal, ok := principalFromContext(ctx); ok {
		dto.Email = principal.Email
	}
	writeSuccess(w, http.StatusOK, dto)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return id, nil
}

func requireCaller(ctx context.Context) (user.User, error) {
	caller, ok := callerFromContext(ctx)
	if !ok {
		return user.User{}, fmt.Errorf("%w: caller is missing from request context", usecase.ErrUnauthorized)
	}
	return caller, nil
}
