package draft

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrDraftNotPending      = errors.New("draft is not pending")
	ErrDraftNotActive       = errors.New("draft is not active")
	ErrAuctionInProgress    = errors.New("an auction is already in progress")
	ErrNoAuctionInProgress  = errors.New("no auction is in progress")
	ErrNotYourTurn          = errors.New("not your turn to nominate")
	ErrInvalidStartingBid   = errors.New("starting bid must be at least 1")
	ErrInsufficientBudget   = errors.New("insufficient remaining budget")
	ErrPlayerAlreadyDrafted = errors.New("player is already on a roster")
	ErrAuctionOver          = errors.New("auction has already ended")
	ErrBidNotHigher         = errors.New("bid must be greater than the current bid")
	ErrSelfOutbid           = errors.New("team already holds the high bid")
	ErrAuctionStillOpen     = errors.New("auction has not ended yet")
	ErrEmptyOrder           = errors.New("nomination order is empty")
)

// Start moves a pending draft to active with the given shuffled order.
// The order is fixed for the lifetime of the draft; turn index starts
// at the first slot.
func Start(d Draft, order []Slot, now time.Time) (Draft, error) {
	if d.Status != StatusPending {
		return Draft{}, fmt.Errorf("%w: status=%s", ErrDraftNotPending, d.Status)
	}
	if len(order) == 0 {
		return Draft{}, ErrEmptyOrder
	}

	next := d.Clone()
	next.Status = StatusActive
	next.Order = append([]Slot(nil), order...)
	next.TurnIndex = 0
	next.Nomination = nil
	next.UpdatedAt = now

	return next, nil
}

// NominationRequest carries everything the caller has already resolved
// against the league registry and player catalog. The state machine
// receives typed records, never bare ids to re-resolve.
type NominationRequest struct {
	UserID          string
	Username        string
	TeamID          string
	RemainingBudget int64
	PlayerID        string
	PlayerName      string
	StartingBid     int64
}

// Nominate opens an auction for a player. Preconditions mirror the
// floor rules: active draft, no live auction, the nominator holds the
// current turn, the starting bid is positive and within budget. The
// turn index does not move here; it only advances at settlement.
func Nominate(d Draft, req NominationRequest, now time.Time) (Draft, error) {
	if d.Status != StatusActive {
		return Draft{}, fmt.Errorf("%w: status=%s", ErrDraftNotActive, d.Status)
	}
	if d.AuctionOpen(now) {
		return Draft{}, fmt.Errorf("%w: player=%s", ErrAuctionInProgress, d.Nomination.PlayerID)
	}

	turn, ok := d.CurrentTurn()
	if !ok {
		return Draft{}, ErrEmptyOrder
	}
	if turn.UserID != req.UserID {
		return Draft{}, fmt.Errorf("%w: turn belongs to user=%s", ErrNotYourTurn, turn.UserID)
	}
	if req.StartingBid < 1 {
		return Draft{}, fmt.Errorf("%w: got %d", ErrInvalidStartingBid, req.StartingBid)
	}
	if req.RemainingBudget < req.StartingBid {
		return Draft{}, fmt.Errorf("%w: budget=%d bid=%d", ErrInsufficientBudget, req.RemainingBudget, req.StartingBid)
	}

	auctionWindow := time.Duration(d.Settings.AuctionTimer) * time.Second

	next := d.Clone()
	next.Nomination = &Nomination{
		PlayerID:                req.PlayerID,
		NominatedByUserID:       req.UserID,
		NominatedByTeamID:       req.TeamID,
		StartingBid:             req.StartingBid,
		CurrentBid:              req.StartingBid,
		CurrentHighBidderTeamID: req.TeamID,
		AuctionStart:            now,
		AuctionEnd:              now.Add(auctionWindow),
	}
	next.History = append(next.History, HistoryEntry{
		Event:       EventNomination,
		UserID:      req.UserID,
		TeamID:      req.TeamID,
		PlayerID:    req.PlayerID,
		Amount:      req.StartingBid,
		Timestamp:   now,
		Description: fmt.Sprintf("%s nominated %s at $%d", req.Username, req.PlayerName, req.StartingBid),
	})
	next.UpdatedAt = now

	return next, nil
}

// BidRequest is a resolved bid attempt.
type BidRequest struct {
	UserID          string
	Username        string
	TeamID          string
	RemainingBudget int64
	Amount          int64
}

// PlaceBid records a strictly higher bid on the live nomination and
// applies the soft-close extension. There is no minimum increment
// beyond "greater than current": +$1 over any bid is accepted.
func PlaceBid(d Draft, req BidRequest, now time.Time) (Draft, error) {
	if d.Status != StatusActive {
		return Draft{}, fmt.Errorf("%w: status=%s", ErrDraftNotActive, d.Status)
	}
	if d.Nomination == nil {
		return Draft{}, ErrNoAuctionInProgress
	}
	if !now.Before(d.Nomination.AuctionEnd) {
		return Draft{}, fmt.Errorf("%w: ended at %s", ErrAuctionOver, d.Nomination.AuctionEnd.UTC().Format(time.RFC3339))
	}
	if req.Amount <= d.Nomination.CurrentBid {
		return Draft{}, fmt.Errorf("%w: current=%d got=%d", ErrBidNotHigher, d.Nomination.CurrentBid, req.Amount)
	}
	if d.Nomination.CurrentHighBidderTeamID == req.TeamID {
		return Draft{}, fmt.Errorf("%w: team=%s", ErrSelfOutbid, req.TeamID)
	}
	if req.RemainingBudget < req.Amount {
		return Draft{}, fmt.Errorf("%w: budget=%d bid=%d", ErrInsufficientBudget, req.RemainingBudget, req.Amount)
	}

	next := d.Clone()
	next.Nomination.CurrentBid = req.Amount
	next.Nomination.CurrentHighBidderTeamID = req.TeamID
	if d.Nomination.AuctionEnd.Sub(now) < SoftCloseWindow {
		next.Nomination.AuctionEnd = now.Add(SoftCloseWindow)
	}
	next.History = append(next.History, HistoryEntry{
		Event:       EventBid,
		UserID:      req.UserID,
		TeamID:      req.TeamID,
		PlayerID:    d.Nomination.PlayerID,
		Amount:      req.Amount,
		Timestamp:   now,
		Description: fmt.Sprintf("%s bid $%d on %s", req.Username, req.Amount, d.Nomination.PlayerID),
	})
	next.UpdatedAt = now

	return next, nil
}

// Outcome is the result of settling an expired auction.
type Outcome struct {
	Sold          bool
	PlayerID      string
	WinnerTeamID  string
	PurchasePrice int64
}

// Settle resolves an expired auction: either the high bidder wins the
// player or it goes unsold. Either way the nomination clears and the
// turn advances by exactly one, modulo the order length. This is the
// only transition that moves the turn index.
func Settle(d Draft, now time.Time) (Draft, Outcome, error) {
	if d.Status != StatusActive {
		return Draft{}, Outcome{}, fmt.Errorf("%w: status=%s", ErrDraftNotActive, d.Status)
	}
	if d.Nomination == nil {
		return Draft{}, Outcome{}, ErrNoAuctionInProgress
	}
	if now.Before(d.Nomination.AuctionEnd) {
		return Draft{}, Outcome{}, fmt.Errorf("%w: ends at %s", ErrAuctionStillOpen, d.Nomination.AuctionEnd.UTC().Format(time.RFC3339))
	}
	if len(d.Order) == 0 {
		return Draft{}, Outcome{}, ErrEmptyOrder
	}

	nom := *d.Nomination
	outcome := Outcome{PlayerID: nom.PlayerID}

	next := d.Clone()
	if nom.CurrentHighBidderTeamID != "" && nom.CurrentBid > 0 {
		outcome.Sold = true
		outcome.WinnerTeamID = nom.CurrentHighBidderTeamID
		outcome.PurchasePrice = nom.CurrentBid
		next.History = append(next.History, HistoryEntry{
			Event:       EventPlayerWon,
			TeamID:      nom.CurrentHighBidderTeamID,
			PlayerID:    nom.PlayerID,
			Amount:      nom.CurrentBid,
			Timestamp:   now,
			Description: fmt.Sprintf("player %s sold for $%d", nom.PlayerID, nom.CurrentBid),
		})
	} else {
		next.History = append(next.History, HistoryEntry{
			Event:       EventUnsold,
			PlayerID:    nom.PlayerID,
			Timestamp:   now,
			Description: fmt.Sprintf("player %s went unsold", nom.PlayerID),
		})
	}

	next.Nomination = nil
	next.TurnIndex = (d.TurnIndex + 1) % len(d.Order)
	next.UpdatedAt = now

	return next, outcome, nil
}
