package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
	"github.com/zhangzheng888/gridiron-auction/internal/usecase"
)

func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateDraft")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createDraftRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	d, err := h.draftService.CreateDraft(ctx, principal, usecase.CreateDraftInput{
		LeagueID:        req.LeagueID,
		NominationTimer: req.NominationTimer,
		AuctionTimer:    req.AuctionTimer,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create draft failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, draftToDTO(ctx, d, h.resolveDraftNames(ctx, d)))
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraft")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	draftID := r.PathValue("draftID")
	d, err := h.draftService.GetDraft(ctx, principal, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "get draft failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(ctx, d, h.resolveDraftNames(ctx, d)))
}

func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartDraft")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	draftID := r.PathValue("draftID")
	d, err := h.draftService.StartDraft(ctx, principal, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "start draft failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(ctx, d, h.resolveDraftNames(ctx, d)))
}

func (h *Handler) NominatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NominatePlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req nominatePlayerRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	draftID := r.PathValue("draftID")
	d, err := h.draftService.NominatePlayer(ctx, principal, draftID, req.PlayerID, req.StartingBid)
	if err != nil {
		h.logger.WarnContext(ctx, "nominate player failed",
			"draft_id", draftID,
			"player_id", req.PlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(ctx, d, h.resolveDraftNames(ctx, d)))
}

func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBid")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req placeBidRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	draftID := r.PathValue("draftID")
	d, err := h.draftService.PlaceBid(ctx, principal, draftID, req.Amount)
	if err != nil {
		h.logger.WarnContext(ctx, "place bid failed",
			"draft_id", draftID,
			"amount", req.Amount,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(ctx, d, h.resolveDraftNames(ctx, d)))
}

func (h *Handler) SettleAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleAuction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	draftID := r.PathValue("draftID")
	d, err := h.draftService.SettleAuction(ctx, principal, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "settle auction failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(ctx, d, h.resolveDraftNames(ctx, d)))
}

// resolveDraftNames looks up display names for the draft's order. Name
// resolution is cosmetic, so lookup failures degrade to bare ids
// instead of failing the request.
func (h *Handler) resolveDraftNames(ctx context.Context, d draft.Draft) draftNames {
	names := draftNames{
		usernameByUserID: make(map[string]string, len(d.Order)),
		teamNameByID:     make(map[string]string, len(d.Order)),
	}
	if len(d.Order) == 0 {
		return names
	}

	members, err := h.leagueService.ListMembers(ctx, d.LeagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve draft member names", "league_id", d.LeagueID, "error", err)
	}
	for _, m := range members {
		names.usernameByUserID[m.UserID] = m.Username
	}

	teams, err := h.leagueService.ListTeams(ctx, d.LeagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve draft team names", "league_id", d.LeagueID, "error", err)
	}
	for _, t := range teams {
		names.teamNameByID[t.ID] = t.Name
	}

	return names
}
