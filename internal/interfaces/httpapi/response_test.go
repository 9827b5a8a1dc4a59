package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
	"github.com/zhangzheng888/gridiron-auction/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_AuctionErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{name: "not found", err: usecase.ErrNotFound, wantStatus: http.StatusNotFound, wantReason: "notFound"},
		{name: "forbidden", err: usecase.ErrForbidden, wantStatus: http.StatusForbidden, wantReason: "forbidden"},
		{name: "not your turn", err: fmt.Errorf("nominate: %w", draft.ErrNotYourTurn), wantStatus: http.StatusForbidden, wantReason: "notYourTurn"},
		{name: "bid not higher", err: fmt.Errorf("place bid: %w", draft.ErrBidNotHigher), wantStatus: http.StatusPreconditionFailed, wantReason: "bidNotHigher"},
		{name: "self outbid", err: draft.ErrSelfOutbid, wantStatus: http.StatusPreconditionFailed, wantReason: "selfOutbid"},
		{name: "insufficient budget", err: draft.ErrInsufficientBudget, wantStatus: http.StatusPreconditionFailed, wantReason: "insufficientBudget"},
		{name: "player already drafted", err: draft.ErrPlayerAlreadyDrafted, wantStatus: http.StatusPreconditionFailed, wantReason: "preconditionFailed"},
		{name: "invalid starting bid", err: draft.ErrInvalidStartingBid, wantStatus: http.StatusBadRequest, wantReason: "invalidStartingBid"},
		{name: "auction over", err: fmt.Errorf("place bid: %w", draft.ErrAuctionOver), wantStatus: http.StatusGone, wantReason: "auctionOver"},
		{name: "auction still open", err: fmt.Errorf("settle auction: %w", draft.ErrAuctionStillOpen), wantStatus: http.StatusTooEarly, wantReason: "auctionStillOpen"},
		{name: "draft not pending", err: draft.ErrDraftNotPending, wantStatus: http.StatusConflict, wantReason: "invalidState"},
		{name: "auction in progress", err: draft.ErrAuctionInProgress, wantStatus: http.StatusConflict, wantReason: "invalidState"},
		{name: "no auction in progress", err: draft.ErrNoAuctionInProgress, wantStatus: http.StatusConflict, wantReason: "invalidState"},
		{name: "lost update race", err: fmt.Errorf("%w: bid lost the race", usecase.ErrConflict), wantStatus: http.StatusConflict, wantReason: "conflict"},
		{name: "version mismatch", err: draft.ErrVersionMismatch, wantStatus: http.StatusConflict, wantReason: "conflict"},
		{name: "dependency unavailable", err: usecase.ErrDependencyUnavailable, wantStatus: http.StatusServiceUnavailable, wantReason: "dependencyUnavailable"},
		{name: "unknown error", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantReason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(context.Background(), tt.err)
			if mapped.HTTPStatus != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, mapped.HTTPStatus)
			}
			if mapped.Reason != tt.wantReason {
				t.Fatalf("expected reason %q, got %q", tt.wantReason, mapped.Reason)
			}
		})
	}
}

func TestWriteError_MasksUnmappedErrorText(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec,
		fmt.Errorf("get draft: dial tcp 10.0.0.5:5432: connect: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	raw := rec.Body.String()
	if strings.Contains(raw, "dial tcp") || strings.Contains(raw, "5432") {
		t.Fatalf("storage details escaped into the response body: %s", raw)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["message"].(string); got != "internal server error" {
		t.Fatalf("expected generic internal message, got %q", got)
	}
	if got, _ := errorObj["status"].(string); got != "INTERNAL" {
		t.Fatalf("expected error status INTERNAL, got %v", errorObj["status"])
	}
}
