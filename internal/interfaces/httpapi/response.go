package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
	"github.com/zhangzheng888/gridiron-auction/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "gridiron-auction"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
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
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)

	// Unmapped failures are infrastructure errors whose text may carry
	// storage identifiers; the client gets the generic body only.
	if mapped.HTTPStatus == http.StatusInternalServerError {
		writeInternalError(ctx, w)
		return
	}

	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
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

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
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

// mapError translates failure kinds into wire responses. Auction floor
// rule violations map to 412 so clients can tell a rejected bid from a
// malformed one; lost optimistic-lock races map to 409 and are safe to
// retry against fresh state.
func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, draft.ErrInvalidStartingBid):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidStartingBid",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{
			HTTPStatus: http.StatusUnauthorized,
			Reason:     "unauthorized",
			Status:     "UNAUTHENTICATED",
		}
	case errors.Is(err, draft.ErrNotYourTurn):
		return mappedError{
			HTTPStatus: http.StatusForbidden,
			Reason:     "notYourTurn",
			Status:     "PERMISSION_DENIED",
		}
	case errors.Is(err, usecase.ErrForbidden):
		return mappedError{
			HTTPStatus: http.StatusForbidden,
			Reason:     "forbidden",
			Status:     "PERMISSION_DENIED",
		}
	case errors.Is(err, draft.ErrBidNotHigher):
		return mappedError{
			HTTPStatus: http.StatusPreconditionFailed,
			Reason:     "bidNotHigher",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, draft.ErrSelfOutbid):
		return mappedError{
			HTTPStatus: http.StatusPreconditionFailed,
			Reason:     "selfOutbid",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, draft.ErrInsufficientBudget):
		return mappedError{
			HTTPStatus: http.StatusPreconditionFailed,
			Reason:     "insufficientBudget",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, draft.ErrPlayerAlreadyDrafted),
		errors.Is(err, usecase.ErrPreconditionFailed):
		return mappedError{
			HTTPStatus: http.StatusPreconditionFailed,
			Reason:     "preconditionFailed",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, draft.ErrAuctionOver),
		errors.Is(err, usecase.ErrAuctionExpired):
		return mappedError{
			HTTPStatus: http.StatusGone,
			Reason:     "auctionOver",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, draft.ErrAuctionStillOpen),
		errors.Is(err, usecase.ErrSettlementTooEarly):
		return mappedError{
			HTTPStatus: http.StatusTooEarly,
			Reason:     "auctionStillOpen",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, draft.ErrDraftNotPending),
		errors.Is(err, draft.ErrDraftNotActive),
		errors.Is(err, draft.ErrAuctionInProgress),
		errors.Is(err, draft.ErrNoAuctionInProgress),
		errors.Is(err, usecase.ErrInvalidState):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "invalidState",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, usecase.ErrConflict),
		errors.Is(err, draft.ErrVersionMismatch):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "conflict",
			Status:     "ABORTED",
		}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{
			HTTPStatus: http.StatusServiceUnavailable,
			Reason:     "dependencyUnavailable",
			Status:     "UNAVAILABLE",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}
