package httpapi

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/user"
	"github.com/zhangzheng888/gridiron-auction/internal/infrastructure/notifier"
	"github.com/zhangzheng888/gridiron-auction/internal/infrastructure/repository/memory"
	"github.com/zhangzheng888/gridiron-auction/internal/platform/cache"
	"github.com/zhangzheng888/gridiron-auction/internal/platform/id"
	"github.com/zhangzheng888/gridiron-auction/internal/usecase"
)

type testServer struct {
	router   http.Handler
	handler  *Handler
	hub      *notifier.Hub
	verifier staticVerifier
}

var testAlice = user.Principal{UserID: "user-alice", Username: "alice", Role: user.RoleUser}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	leagueRepo := memory.NewLeagueRepository(nil, nil)
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	teamRepo := memory.NewTeamRepository(nil)
	draftRepo := memory.NewDraftRepository(teamRepo)
	idGen := id.NewRandomGenerator()

	hub := notifier.NewHub(logger)
	t.Cleanup(hub.Close)

	leagueService := usecase.NewLeagueService(leagueRepo, teamRepo, idGen, logger)
	playerService := usecase.NewPlayerService(playerRepo, cache.NewStore(time.Minute))
	draftService := usecase.NewDraftService(draftRepo, leagueRepo, teamRepo, playerRepo, hub, idGen, logger)
	sweeper, err := usecase.NewSettlementSweeper(draftService, draftRepo, time.Second, 2, logger)
	if err != nil {
		t.Fatalf("create sweeper: %v", err)
	}

	handler := NewHandler(leagueService, playerService, draftService, sweeper, hub, logger)
	verifier := staticVerifier{
		"token-alice": testAlice,
		"token-bob":   {UserID: "user-bob", Username: "bob", Role: user.RoleUser},
	}
	router := NewRouter(handler, verifier, logger, []string{"*"}, "job-secret")

	return &testServer{router: router, handler: handler, hub: hub, verifier: verifier}
}

func (s *testServer) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := sonic.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		APIVersion string `json:"apiVersion"`
		Data       T      `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response envelope: %v (body: %s)", err, rec.Body.String())
	}
	return envelope.Data
}

// setupSingleMemberDraft runs the commissioner flow over HTTP: create a
// league with alice as its only member, create its draft, and start it.
// A single slot makes the nomination turn deterministic.
func setupSingleMemberDraft(t *testing.T, srv *testServer) (leagueDTO, draftDTO) {
	t.Helper()

	rec := srv.do(t, http.MethodPost, "/v1/leagues", "token-alice", map[string]any{
		"name":     "Test Keeper League",
		"teamSize": 4,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create league: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	l := decodeData[leagueDTO](t, rec)

	rec = srv.do(t, http.MethodPost, "/v1/drafts", "token-alice", map[string]any{
		"leagueId": l.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create draft: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	d := decodeData[draftDTO](t, rec)

	rec = srv.do(t, http.MethodPost, "/v1/drafts/"+d.ID+"/start", "token-alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start draft: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	started := decodeData[draftDTO](t, rec)

	return l, started
}

func TestRouter_Healthz(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/leagues", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/v1/leagues", "token-unknown", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with unknown token, got %d", rec.Code)
	}
}

func TestRouter_DraftLifecycle(t *testing.T) {
	srv := newTestServer(t)

	l, started := setupSingleMemberDraft(t, srv)
	if started.Status != "active" {
		t.Fatalf("expected active draft, got %s", started.Status)
	}
	if len(started.Order) != 1 || started.Order[0].UserID != testAlice.UserID {
		t.Fatalf("unexpected nomination order: %+v", started.Order)
	}
	if started.TurnUserID != testAlice.UserID {
		t.Fatalf("expected alice on the clock, got %q", started.TurnUserID)
	}
	if started.Order[0].Username != "alice" {
		t.Fatalf("expected resolved username, got %q", started.Order[0].Username)
	}

	// The league now has one team holding the full budget.
	rec := srv.do(t, http.MethodGet, "/v1/leagues/"+l.ID+"/teams", "token-alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list teams: expected 200, got %d", rec.Code)
	}
	teams := decodeData[[]teamDTO](t, rec)
	if len(teams) != 1 || teams[0].RemainingBudget != l.PlayerBudget {
		t.Fatalf("unexpected teams: %+v", teams)
	}

	rec = srv.do(t, http.MethodPost, "/v1/drafts/"+started.ID+"/nominations", "token-alice", map[string]any{
		"playerId":    "nfl-qb-01",
		"startingBid": 5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("nominate: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	nominated := decodeData[draftDTO](t, rec)
	if nominated.Nomination == nil || nominated.Nomination.CurrentBid != 5 {
		t.Fatalf("unexpected nomination: %+v", nominated.Nomination)
	}
	if nominated.Nomination.PlayerID != "nfl-qb-01" {
		t.Fatalf("unexpected nominated player: %s", nominated.Nomination.PlayerID)
	}

	// A bid at or below the current high bid is rejected.
	rec = srv.do(t, http.MethodPost, "/v1/drafts/"+started.ID+"/bids", "token-alice", map[string]any{
		"amount": 5,
	})
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("low bid: expected 412, got %d (%s)", rec.Code, rec.Body.String())
	}

	// The auction window is still open, so settlement is too early.
	rec = srv.do(t, http.MethodPost, "/v1/drafts/"+started.ID+"/settle", "token-alice", nil)
	if rec.Code != http.StatusTooEarly {
		t.Fatalf("early settle: expected 425, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodGet, "/v1/drafts/"+started.ID, "token-alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get draft: expected 200, got %d", rec.Code)
	}
	fetched := decodeData[draftDTO](t, rec)
	if fetched.Nomination == nil || fetched.Version != nominated.Version {
		t.Fatalf("unexpected draft state: version=%d nomination=%+v", fetched.Version, fetched.Nomination)
	}
}

func TestRouter_DraftForbiddenForOutsiders(t *testing.T) {
	srv := newTestServer(t)

	_, started := setupSingleMemberDraft(t, srv)

	rec := srv.do(t, http.MethodGet, "/v1/drafts/"+started.ID, "token-bob", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-member, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouter_SearchPlayers(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/players?query=mahomes", "token-alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	players := decodeData[[]playerDTO](t, rec)
	if len(players) != 1 || players[0].FullName != "Patrick Mahomes" {
		t.Fatalf("unexpected search result: %+v", players)
	}
}

func TestRouter_GetUnknownDraft(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/drafts/nope", "token-alice", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_SettleDueJob(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/settle-due", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without job token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/settle-due", nil)
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	result := decodeData[settleDueJobResultDTO](t, rec)
	if result.Settled != 0 {
		t.Fatalf("expected zero settlements on an idle board, got %d", result.Settled)
	}
}

func TestStreamDraftEvents_DeliversSnapshots(t *testing.T) {
	srv := newTestServer(t)

	_, started := setupSingleMemberDraft(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/v1/drafts/"+started.ID+"/events", nil)
	req.SetPathValue("draftID", started.ID)
	req = req.WithContext(withPrincipal(ctx, testAlice))
	rec := httptest.NewRecorder()

	// Nominate while the stream is attached so a broadcast lands before
	// the context deadline closes the stream.
	go func() {
		time.Sleep(100 * time.Millisecond)
		srv.do(t, http.MethodPost, "/v1/drafts/"+started.ID+"/nominations", "token-alice", map[string]any{
			"playerId":    "nfl-rb-01",
			"startingBid": 3,
		})
	}()

	srv.handler.StreamDraftEvents(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type: %q", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: snapshot") {
		t.Fatalf("expected initial snapshot frame, got: %s", body)
	}
	if !strings.Contains(body, "event: draft") {
		t.Fatalf("expected draft broadcast frame, got: %s", body)
	}
	if !strings.Contains(body, "nfl-rb-01") {
		t.Fatalf("expected nominated player in stream, got: %s", body)
	}
}
