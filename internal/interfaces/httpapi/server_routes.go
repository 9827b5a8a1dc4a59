package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagues)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}/members", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueMembers)))
	mux.Handle("GET /v1/leagues/{leagueID}/teams", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueTeams)))
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.SearchPlayers)))
	mux.Handle("GET /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPlayer)))
}

func registerDraftRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/drafts", RequireAuth(verifier, http.HandlerFunc(handler.CreateDraft)))
	mux.Handle("GET /v1/drafts/{draftID}", RequireAuth(verifier, http.HandlerFunc(handler.GetDraft)))
	mux.Handle("POST /v1/drafts/{draftID}/start", RequireAuth(verifier, http.HandlerFunc(handler.StartDraft)))
	mux.Handle("POST /v1/drafts/{draftID}/nominations", RequireAuth(verifier, http.HandlerFunc(handler.NominatePlayer)))
	mux.Handle("POST /v1/drafts/{draftID}/bids", RequireAuth(verifier, http.HandlerFunc(handler.PlaceBid)))
	mux.Handle("POST /v1/drafts/{draftID}/settle", RequireAuth(verifier, http.HandlerFunc(handler.SettleAuction)))
	mux.Handle("GET /v1/drafts/{draftID}/events", RequireAuth(verifier, http.HandlerFunc(handler.StreamDraftEvents)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/settle-due", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSettleDueJob)))
}
