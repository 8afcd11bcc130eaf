package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/bet-pool/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "bet-pool"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Meta       any              `json:"meta,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string

	// Internal errors never echo their message to the client.
	Internal bool
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		http.Error(w, `{"error":{"code":500,"message":"internal server error"}}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeSuccessWithMeta(w http.ResponseWriter, status int, data, meta any) {
	writeJSON(w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
		Meta:       meta,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	recordSpanError(ctx, mapped.HTTPStatus, err)
	if mapped.Internal {
		writeInternalError(ctx, w)
		return
	}

	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(_ context.Context, w http.ResponseWriter) {
	const msg = "internal server error"

	writeJSON(w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

// mapError checks the most specific kinds first; score validation errors
// also wrap ErrInvalidInput.
func mapError(err error) mappedError {
	switch {
	case errors.Is(err, usecase.ErrMissingScore):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "missingScore", Status: "INVALID_ARGUMENT"}
	case errors.Is(err, usecase.ErrNegativeScore):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "negativeScore", Status: "INVALID_ARGUMENT"}
	case errors.Is(err, usecase.ErrInvalidBetType):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidBetType", Status: "INVALID_ARGUMENT"}
	case errors.Is(err, usecase.ErrInvalidOdds):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidOdds", Status: "INVALID_ARGUMENT"}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Status: "UNAUTHENTICATED"}
	case errors.Is(err, usecase.ErrBetLocked):
		return mappedError{HTTPStatus: http.StatusForbidden, Reason: "betLocked", Status: "PERMISSION_DENIED"}
	case errors.Is(err, usecase.ErrSelfRoleChange):
		return mappedError{HTTPStatus: http.StatusForbidden, Reason: "selfRoleChange", Status: "PERMISSION_DENIED"}
	case errors.Is(err, usecase.ErrForbidden):
		return mappedError{HTTPStatus: http.StatusForbidden, Reason: "forbidden", Status: "PERMISSION_DENIED"}
	case errors.Is(err, usecase.ErrDuplicateBet):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "duplicateBet", Status: "ALREADY_EXISTS"}
	case errors.Is(err, usecase.ErrAlreadyScored):
		return mappedError{HTTPStatus: http.StatusUnprocessableEntity, Reason: "scoreLocked", Status: "FAILED_PRECONDITION"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL", Internal: true}
	}
}
