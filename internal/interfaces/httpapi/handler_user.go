package httpapi

import (
	"net/http"

	"github.com/riskibarqy/bet-pool/internal/usecase"
)

type updateUserRequest struct {
	Admin *bool `json:"admin"`
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUsers")
	defer span.End()

	users, err := h.userService.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list users failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userToDTO(u))
	}

	writeSuccessWithMeta(w, http.StatusOK, items, countMetaDTO{Count: len(items)})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateUser")
	defer span.End()

	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.userService.UpdateUser(ctx, caller, usecase.UpdateUserInput{
		UserID: userID,
		Admin:  req.Admin,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update user failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	if req.Admin != nil {
		h.logger.InfoContext(ctx, "user admin role updated", "user_id", item.ID, "admin", item.Admin, "by_user_id", caller.ID)
	}
	writeSuccess(w, http.StatusOK, userToDTO(item))
}
