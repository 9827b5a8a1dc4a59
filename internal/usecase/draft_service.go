package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/league"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/player"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/team"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/user"
	idgen "github.com/zhangzheng888/gridiron-auction/internal/platform/id"
)

// maxUpdateRetries bounds how often a transition is retried after an
// optimistic-lock collision before the caller sees ErrConflict.
const maxUpdateRetries = 3

// Notifier broadcasts post-transition snapshots to draft-room
// subscribers. Delivery is best effort and must never block or fail a
// committed transition.
type Notifier interface {
	PublishDraft(d draft.Draft)
}

// CreateDraftInput is the incoming payload for draft creation.
type CreateDraftInput struct {
	LeagueID        string
	NominationTimer int
	AuctionTimer    int
}

type DraftService struct {
	draftRepo  draft.Repository
	leagueRepo league.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	notifier   Notifier
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time

	// rand.Rand is not safe for concurrent use; rngMu serializes the
	// shuffle across StartDraft calls.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewDraftService(
	draftRepo draft.Repository,
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	notifier Notifier,
	idGen idgen.Generator,
	logger *slog.Logger,
) *DraftService {
	if logger == nil {
		logger = slog.Default()
	}

	return &DraftService{
		draftRepo:  draftRepo,
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// CreateDraft creates the pending draft for a league. Only the league's
// commissioner or a superadmin may call it; a league has at most one
// draft, ever.
func (s *DraftService) CreateDraft(ctx context.Context, principal user.Principal, input CreateDraftInput) (draft.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.CreateDraft")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.LeagueID == "" {
		return draft.Draft{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return draft.Draft{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return draft.Draft{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}
	if err := s.requireCommissioner(principal, l); err != nil {
		return draft.Draft{}, err
	}

	draftID, err := s.idGen.NewID()
	if err != nil {
		return draft.Draft{}, fmt.Errorf("generate draft id: %w", err)
	}

	now := s.now().UTC()
	d := draft.Draft{
		ID:       draftID,
		LeagueID: l.ID,
		Status:   draft.StatusPending,
		Settings: draft.Settings{
			NominationTimer: input.NominationTimer,
			AuctionTimer:    input.AuctionTimer,
		}.Normalize(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.draftRepo.Create(ctx, d); err != nil {
		if errors.Is(err, draft.ErrLeagueDraftExists) {
			return draft.Draft{}, fmt.Errorf("%w: league %s already has a draft", ErrConflict, l.ID)
		}
		return draft.Draft{}, fmt.Errorf("create draft: %w", err)
	}

	s.logger.InfoContext(ctx, "draft created",
		"draft_id", d.ID,
		"league_id", l.ID,
		"nomination_timer", d.Settings.NominationTimer,
		"auction_timer", d.Settings.AuctionTimer,
	)

	return d, nil
}

// StartDraft snapshots league membership into a shuffled nomination
// order and activates the draft. Every member gets a team with a full
// budget and an empty roster, created or reset as needed, in the same
// transaction as the draft update.
func (s *DraftService) StartDraft(ctx context.Context, principal user.Principal, draftID string) (draft.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.StartDraft")
	defer span.End()

	d, l, err := s.loadDraftAndLeague(ctx, draftID)
	if err != nil {
		return draft.Draft{}, err
	}
	if err := s.requireCommissioner(principal, l); err != nil {
		return draft.Draft{}, err
	}
	if d.Status != draft.StatusPending {
		return draft.Draft{}, fmt.Errorf("start draft: %w: status=%s", draft.ErrDraftNotPending, d.Status)
	}

	members, err := s.leagueRepo.ListMembers(ctx, l.ID)
	if err != nil {
		return draft.Draft{}, fmt.Errorf("list league members: %w", err)
	}
	if len(members) == 0 {
		return draft.Draft{}, fmt.Errorf("%w: league %s has no members", ErrPreconditionFailed, l.ID)
	}

	now := s.now().UTC()
	teams := make([]team.Team, 0, len(members))
	order := make([]draft.Slot, 0, len(members))
	for _, m := range members {
		t, exists, err := s.teamRepo.GetByUserAndLeague(ctx, m.UserID, l.ID)
		if err != nil {
			return draft.Draft{}, fmt.Errorf("get team for member %s: %w", m.UserID, err)
		}
		if !exists {
			teamID, err := s.idGen.NewID()
			if err != nil {
				return draft.Draft{}, fmt.Errorf("generate team id: %w", err)
			}
			t = team.Team{
				ID:        teamID,
				UserID:    m.UserID,
				LeagueID:  l.ID,
				Name:      fmt.Sprintf("%s's Team", m.Username),
				CreatedAt: now,
			}
		}

		// Upsert with reset: a restarted draft hands everyone a fresh
		// budget and an empty roster.
		t.RemainingBudget = l.PlayerBudget
		t.Roster = nil
		t.UpdatedAt = now

		teams = append(teams, t)
		order = append(order, draft.Slot{UserID: m.UserID, TeamID: t.ID})
	}

	s.rngMu.Lock()
	draft.ShuffleOrder(order, s.rng)
	s.rngMu.Unlock()

	started, err := draft.Start(d, order, now)
	if err != nil {
		return draft.Draft{}, fmt.Errorf("start draft: %w", err)
	}

	if err := s.draftRepo.UpdateWithTeams(ctx, started, d.Version, teams); err != nil {
		if errors.Is(err, draft.ErrVersionMismatch) {
			return draft.Draft{}, fmt.Errorf("%w: draft changed while starting", ErrConflict)
		}
		return draft.Draft{}, fmt.Errorf("persist started draft: %w", err)
	}
	started.Version = d.Version + 1

	s.logger.InfoContext(ctx, "draft started",
		"draft_id", started.ID,
		"league_id", l.ID,
		"member_count", len(order),
	)
	s.publish(started)

	return started, nil
}

// GetDraft returns the draft if the caller is allowed to see it:
// league members, the commissioner, or a superadmin.
func (s *DraftService) GetDraft(ctx context.Context, principal user.Principal, draftID string) (draft.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetDraft")
	defer span.End()

	d, l, err := s.loadDraftAndLeague(ctx, draftID)
	if err != nil {
		return draft.Draft{}, err
	}
	if err := s.requireParticipant(ctx, principal, d, l); err != nil {
		return draft.Draft{}, err
	}

	return d, nil
}

// NominatePlayer puts a player up for auction on behalf of the caller,
// who must hold the current turn. Retried on optimistic-lock conflicts
// with full re-validation against the fresh aggregate.
func (s *DraftService) NominatePlayer(ctx context.Context, principal user.Principal, draftID, playerID string, startingBid int64) (draft.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.NominatePlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return draft.Draft{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		d, l, err := s.loadDraftAndLeague(ctx, draftID)
		if err != nil {
			return draft.Draft{}, err
		}

		now := s.now().UTC()
		if d.Status != draft.StatusActive {
			return draft.Draft{}, fmt.Errorf("nominate: %w: status=%s", draft.ErrDraftNotActive, d.Status)
		}
		if d.AuctionOpen(now) {
			return draft.Draft{}, fmt.Errorf("nominate: %w", draft.ErrAuctionInProgress)
		}
		turn, ok := d.CurrentTurn()
		if !ok || turn.UserID != principal.UserID {
			return draft.Draft{}, fmt.Errorf("nominate: %w", draft.ErrNotYourTurn)
		}

		callerTeam, exists, err := s.teamRepo.GetByUserAndLeague(ctx, principal.UserID, l.ID)
		if err != nil {
			return draft.Draft{}, fmt.Errorf("get nominating team: %w", err)
		}
		if !exists {
			return draft.Draft{}, fmt.Errorf("%w: user %s has no team in league %s", ErrPreconditionFailed, principal.UserID, l.ID)
		}

		p, exists, err := s.playerRepo.GetByID(ctx, playerID)
		if err != nil {
			return draft.Draft{}, fmt.Errorf("get player: %w", err)
		}
		if !exists {
			return draft.Draft{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}

		next, err := draft.Nominate(d, draft.NominationRequest{
			UserID:          principal.UserID,
			Username:        principal.Username,
			TeamID:          callerTeam.ID,
			RemainingBudget: callerTeam.RemainingBudget,
			PlayerID:        p.ID,
			PlayerName:      p.FullName,
			StartingBid:     startingBid,
		}, now)
		if err != nil {
			return draft.Draft{}, fmt.Errorf("nominate: %w", err)
		}

		if err := s.ensureUndrafted(ctx, l.ID, p.ID); err != nil {
			return draft.Draft{}, err
		}

		err = s.draftRepo.Update(ctx, next, d.Version)
		if errors.Is(err, draft.ErrVersionMismatch) {
			continue
		}
		if err != nil {
			return draft.Draft{}, fmt.Errorf("persist nomination: %w", err)
		}
		next.Version = d.Version + 1

		s.logger.InfoContext(ctx, "player nominated",
			"draft_id", d.ID,
			"player_id", p.ID,
			"team_id", callerTeam.ID,
			"starting_bid", startingBid,
		)
		s.publish(next)

		return next, nil
	}

	return draft.Draft{}, fmt.Errorf("%w: nomination lost the race, try again", ErrConflict)
}

// PlaceBid records a strictly higher bid on the live auction. Two
// simultaneous bids race on the draft version: exactly one commits, the
// other re-reads and re-validates against the winner's state.
func (s *DraftService) PlaceBid(ctx context.Context, principal user.Principal, draftID string, amount int64) (draft.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.PlaceBid")
	defer span.End()

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		d, l, err := s.loadDraftAndLeague(ctx, draftID)
		if err != nil {
			return draft.Draft{}, err
		}

		callerTeam, exists, err := s.teamRepo.GetByUserAndLeague(ctx, principal.UserID, l.ID)
		if err != nil {
			return draft.Draft{}, fmt.Errorf("get bidding team: %w", err)
		}
		if !exists {
			return draft.Draft{}, fmt.Errorf("%w: user %s has no team in league %s", ErrPreconditionFailed, principal.UserID, l.ID)
		}

		next, err := draft.PlaceBid(d, draft.BidRequest{
			UserID:          principal.UserID,
			Username:        principal.Username,
			TeamID:          callerTeam.ID,
			RemainingBudget: callerTeam.RemainingBudget,
			Amount:          amount,
		}, s.now().UTC())
		if err != nil {
			return draft.Draft{}, fmt.Errorf("place bid: %w", err)
		}

		err = s.draftRepo.Update(ctx, next, d.Version)
		if errors.Is(err, draft.ErrVersionMismatch) {
			continue
		}
		if err != nil {
			return draft.Draft{}, fmt.Errorf("persist bid: %w", err)
		}
		next.Version = d.Version + 1

		s.logger.InfoContext(ctx, "bid placed",
			"draft_id", d.ID,
			"team_id", callerTeam.ID,
			"amount", amount,
		)
		s.publish(next)

		return next, nil
	}

	return draft.Draft{}, fmt.Errorf("%w: bid lost the race, try again", ErrConflict)
}

// SettleAuction resolves an expired auction. Any league participant may
// trigger it; the outcome depends only on the stored state and the
// clock, so a late call (even minutes late) settles identically. A
// sold player debits the winner's budget and appends to its roster in
// the same transaction as the draft update.
func (s *DraftService) SettleAuction(ctx context.Context, principal user.Principal, draftID string) (draft.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.SettleAuction")
	defer span.End()

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		d, l, err := s.loadDraftAndLeague(ctx, draftID)
		if err != nil {
			return draft.Draft{}, err
		}
		if err := s.requireParticipant(ctx, principal, d, l); err != nil {
			return draft.Draft{}, err
		}

		next, outcome, err := draft.Settle(d, s.now().UTC())
		if err != nil {
			return draft.Draft{}, fmt.Errorf("settle auction: %w", err)
		}

		if outcome.Sold {
			winner, exists, err := s.teamRepo.GetByID(ctx, outcome.WinnerTeamID)
			if err != nil {
				return draft.Draft{}, fmt.Errorf("get winning team: %w", err)
			}
			if !exists {
				return draft.Draft{}, fmt.Errorf("%w: winning team %s not found", ErrPreconditionFailed, outcome.WinnerTeamID)
			}
			if winner.RemainingBudget < outcome.PurchasePrice {
				// A committed high bid can never exceed the bidder's budget,
				// so this means the team row was mutated out of band. Refuse
				// to debit below zero and leave a loud trail; the draft is
				// unblocked by nominating over the expired auction.
				s.logger.ErrorContext(ctx, "settlement blocked by inconsistent team budget",
					"draft_id", d.ID,
					"team_id", winner.ID,
					"remaining_budget", winner.RemainingBudget,
					"winning_bid", outcome.PurchasePrice,
				)
				return draft.Draft{}, fmt.Errorf("%w: team %s budget %d below winning bid %d",
					ErrPreconditionFailed, winner.ID, winner.RemainingBudget, outcome.PurchasePrice)
			}

			winner.RemainingBudget -= outcome.PurchasePrice
			winner.Roster = append(winner.Roster, team.RosterSlot{
				PlayerID:      outcome.PlayerID,
				PurchasePrice: outcome.PurchasePrice,
			})
			winner.UpdatedAt = s.now().UTC()

			err = s.draftRepo.UpdateWithTeams(ctx, next, d.Version, []team.Team{winner})
			if errors.Is(err, draft.ErrVersionMismatch) {
				continue
			}
			if err != nil {
				return draft.Draft{}, fmt.Errorf("persist settlement: %w", err)
			}
		} else {
			err = s.draftRepo.Update(ctx, next, d.Version)
			if errors.Is(err, draft.ErrVersionMismatch) {
				continue
			}
			if err != nil {
				return draft.Draft{}, fmt.Errorf("persist settlement: %w", err)
			}
		}
		next.Version = d.Version + 1

		s.logger.InfoContext(ctx, "auction settled",
			"draft_id", d.ID,
			"player_id", outcome.PlayerID,
			"sold", outcome.Sold,
			"winning_team_id", outcome.WinnerTeamID,
			"price", outcome.PurchasePrice,
			"next_turn_index", next.TurnIndex,
		)
		s.publish(next)

		return next, nil
	}

	return draft.Draft{}, fmt.Errorf("%w: settlement lost the race, try again", ErrConflict)
}

func (s *DraftService) loadDraftAndLeague(ctx context.Context, draftID string) (draft.Draft, league.League, error) {
	draftID = strings.TrimSpace(draftID)
	if draftID == "" {
		return draft.Draft{}, league.League{}, fmt.Errorf("%w: draft id is required", ErrInvalidInput)
	}

	d, exists, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return draft.Draft{}, league.League{}, fmt.Errorf("get draft: %w", err)
	}
	if !exists {
		return draft.Draft{}, league.League{}, fmt.Errorf("%w: draft=%s", ErrNotFound, draftID)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, d.LeagueID)
	if err != nil {
		return draft.Draft{}, league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return draft.Draft{}, league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, d.LeagueID)
	}

	return d, l, nil
}

func (s *DraftService) requireCommissioner(principal user.Principal, l league.League) error {
	if principal.IsSuperadmin() || principal.UserID == l.CommissionerID {
		return nil
	}

	return fmt.Errorf("%w: only the league commissioner or a superadmin may manage this draft", ErrForbidden)
}

func (s *DraftService) requireParticipant(ctx context.Context, principal user.Principal, d draft.Draft, l league.League) error {
	if principal.IsSuperadmin() || principal.UserID == l.CommissionerID || d.InOrder(principal.UserID) {
		return nil
	}

	member, err := s.leagueRepo.IsMember(ctx, l.ID, principal.UserID)
	if err != nil {
		return fmt.Errorf("check league membership: %w", err)
	}
	if !member {
		return fmt.Errorf("%w: you are not part of this draft", ErrForbidden)
	}

	return nil
}

// ensureUndrafted enforces the drafted-once invariant with a cross-team
// roster scan at nomination time; settlement re-checks nothing because
// a player can only be live on one nomination at a time.
func (s *DraftService) ensureUndrafted(ctx context.Context, leagueID, playerID string) error {
	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list league teams: %w", err)
	}
	for _, t := range teams {
		if t.HasPlayer(playerID) {
			return fmt.Errorf("%w: player %s is already on team %s", ErrPreconditionFailed, playerID, t.ID)
		}
	}

	return nil
}

func (s *DraftService) publish(d draft.Draft) {
	if s.notifier == nil {
		return
	}
	s.notifier.PublishDraft(d)
}
