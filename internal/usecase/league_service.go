package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/league"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/team"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/user"
	idgen "github.com/zhangzheng888/gridiron-auction/internal/platform/id"
)

// CreateLeagueInput is the incoming payload for league creation.
type CreateLeagueInput struct {
	Name         string
	TeamSize     int
	PlayerBudget int64
}

type LeagueService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewLeagueService(leagueRepo league.Repository, teamRepo team.Repository, idGen idgen.Generator, logger *slog.Logger) *LeagueService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LeagueService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateLeague registers a new league with the caller as commissioner
// and first member. The join code is generated server side.
func (s *LeagueService) CreateLeague(ctx context.Context, principal user.Principal, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if input.PlayerBudget == 0 {
		input.PlayerBudget = league.DefaultPlayerBudget
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}
	code, err := newLeagueCode()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league code: %w", err)
	}

	now := s.now().UTC()
	l := league.League{
		ID:             leagueID,
		Name:           input.Name,
		LeagueCode:     code,
		CommissionerID: principal.UserID,
		TeamSize:       input.TeamSize,
		PlayerBudget:   input.PlayerBudget,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := l.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Create(ctx, l); err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}
	if err := s.leagueRepo.AddMember(ctx, l.ID, league.Member{
		UserID:   principal.UserID,
		Username: principal.Username,
		JoinedAt: now,
	}); err != nil {
		return league.League{}, fmt.Errorf("add commissioner as member: %w", err)
	}

	s.logger.InfoContext(ctx, "league created",
		"league_id", l.ID,
		"commissioner_id", principal.UserID,
		"team_size", l.TeamSize,
		"player_budget", l.PlayerBudget,
	)

	return l, nil
}

// JoinLeague adds the caller to the league matching the join code.
func (s *LeagueService) JoinLeague(ctx context.Context, principal user.Principal, leagueCode string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinLeague")
	defer span.End()

	leagueCode = strings.ToUpper(strings.TrimSpace(leagueCode))
	if leagueCode == "" {
		return league.League{}, fmt.Errorf("%w: league code is required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByCode(ctx, leagueCode)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by code: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: no league with code %s", ErrNotFound, leagueCode)
	}

	member, err := s.leagueRepo.IsMember(ctx, l.ID, principal.UserID)
	if err != nil {
		return league.League{}, fmt.Errorf("check membership: %w", err)
	}
	if member {
		return league.League{}, fmt.Errorf("%w: already a member of league %s", ErrPreconditionFailed, l.ID)
	}

	members, err := s.leagueRepo.ListMembers(ctx, l.ID)
	if err != nil {
		return league.League{}, fmt.Errorf("list members: %w", err)
	}
	if len(members) >= l.TeamSize {
		return league.League{}, fmt.Errorf("%w: league %s is full", ErrPreconditionFailed, l.ID)
	}

	if err := s.leagueRepo.AddMember(ctx, l.ID, league.Member{
		UserID:   principal.UserID,
		Username: principal.Username,
		JoinedAt: s.now().UTC(),
	}); err != nil {
		return league.League{}, fmt.Errorf("add member: %w", err)
	}

	s.logger.InfoContext(ctx, "member joined league",
		"league_id", l.ID,
		"user_id", principal.UserID,
	)

	return l, nil
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague")
	defer span.End()

	l, exists, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return league.League{}, err
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return l, nil
}

func (s *LeagueService) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMembers")
	defer span.End()

	_, exists, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return members, nil
}

func (s *LeagueService) ListTeams(ctx context.Context, leagueID string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListTeams")
	defer span.End()

	_, exists, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

func (s *LeagueService) getLeague(ctx context.Context, leagueID string) (league.League, bool, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, false, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	return l, exists, nil
}

func newLeagueCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
