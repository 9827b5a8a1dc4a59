package usecase

import (
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/user"
	"github.com/zhangzheng888/gridiron-auction/internal/infrastructure/repository/memory"
)

func newLeagueService(t *testing.T) *LeagueService {
	t.Helper()

	leagueRepo := memory.NewLeagueRepository(nil, nil)
	teamRepo := memory.NewTeamRepository(nil)

	return NewLeagueService(
		leagueRepo,
		teamRepo,
		&seqIDGenerator{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestLeagueService_CreateLeague(t *testing.T) {
	service := newLeagueService(t)

	l, err := service.CreateLeague(t.Context(), alice, CreateLeagueInput{
		Name:     "Sunday Showdown",
		TeamSize: 8,
	})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}

	if l.CommissionerID != alice.UserID {
		t.Fatalf("expected caller as commissioner, got %s", l.CommissionerID)
	}
	if l.PlayerBudget != 200 {
		t.Fatalf("expected default budget 200, got %d", l.PlayerBudget)
	}
	if !regexp.MustCompile(`^[0-9A-F]{6}$`).MatchString(l.LeagueCode) {
		t.Fatalf("expected 6 uppercase hex chars as league code, got %q", l.LeagueCode)
	}

	members, err := service.ListMembers(t.Context(), l.ID)
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 1 || members[0].UserID != alice.UserID {
		t.Fatalf("expected commissioner as sole member, got %+v", members)
	}
}

func TestLeagueService_CreateLeague_InvalidInput(t *testing.T) {
	service := newLeagueService(t)

	cases := []struct {
		name  string
		input CreateLeagueInput
	}{
		{"empty name", CreateLeagueInput{Name: "  ", TeamSize: 8}},
		{"team size too small", CreateLeagueInput{Name: "Tiny", TeamSize: 2}},
		{"team size too large", CreateLeagueInput{Name: "Huge", TeamSize: 30}},
		{"negative budget", CreateLeagueInput{Name: "Broke", TeamSize: 8, PlayerBudget: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateLeague(t.Context(), alice, tc.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLeagueService_JoinLeague(t *testing.T) {
	service := newLeagueService(t)

	l, err := service.CreateLeague(t.Context(), alice, CreateLeagueInput{Name: "Sunday Showdown", TeamSize: 4})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}

	joined, err := service.JoinLeague(t.Context(), bob, l.LeagueCode)
	if err != nil {
		t.Fatalf("join league failed: %v", err)
	}
	if joined.ID != l.ID {
		t.Fatalf("expected league %s, got %s", l.ID, joined.ID)
	}

	// Codes match case-insensitively; they are stored uppercase.
	if _, err := service.JoinLeague(t.Context(), carol, "  "+strings.ToLower(l.LeagueCode)+" "); err != nil {
		t.Fatalf("expected lowercase code to match, got %v", err)
	}

	if _, err := service.JoinLeague(t.Context(), bob, l.LeagueCode); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed on duplicate join, got %v", err)
	}
	if _, err := service.JoinLeague(t.Context(), alice, "FFFFFF"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}

	// Fill the last slot, then the league turns joiners away.
	dave := user.Principal{UserID: "user-dave", Username: "dave", Role: user.RoleUser}
	if _, err := service.JoinLeague(t.Context(), dave, l.LeagueCode); err != nil {
		t.Fatalf("expected fourth member to join, got %v", err)
	}
	erin := user.Principal{UserID: "user-erin", Username: "erin", Role: user.RoleUser}
	if _, err := service.JoinLeague(t.Context(), erin, l.LeagueCode); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed for full league, got %v", err)
	}
}

func TestLeagueService_GetLeague_NotFound(t *testing.T) {
	service := newLeagueService(t)

	_, err := service.GetLeague(t.Context(), "league-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

