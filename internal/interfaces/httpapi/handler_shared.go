package httpapi

import (
	"context"
	"time"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/league"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/player"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/team"
)

type createLeagueRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	TeamSize     int    `json:"teamSize" validate:"required,gte=4,lte=20"`
	PlayerBudget int64  `json:"playerBudget" validate:"omitempty,gt=0"`
}

type joinLeagueRequest struct {
	LeagueCode string `json:"leagueCode" validate:"required,len=6,hexadecimal"`
}

type createDraftRequest struct {
	LeagueID        string `json:"leagueId" validate:"required"`
	NominationTimer int    `json:"nominationTimer" validate:"omitempty,gt=0,lte=600"`
	AuctionTimer    int    `json:"auctionTimer" validate:"omitempty,gt=0,lte=600"`
}

type nominatePlayerRequest struct {
	PlayerID    string `json:"playerId" validate:"required"`
	StartingBid int64  `json:"startingBid" validate:"required,gt=0"`
}

type placeBidRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type leagueDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	LeagueCode     string `json:"leagueCode"`
	CommissionerID string `json:"commissionerId"`
	TeamSize       int    `json:"teamSize"`
	PlayerBudget   int64  `json:"playerBudget"`
	CreatedAtUTC   string `json:"createdAtUtc"`
	UpdatedAtUTC   string `json:"updatedAtUtc"`
}

type memberDTO struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	JoinedAtUTC string `json:"joinedAtUtc"`
}

type rosterSlotDTO struct {
	PlayerID      string `json:"playerId"`
	PurchasePrice int64  `json:"purchasePrice"`
}

type teamDTO struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	LeagueID        string          `json:"leagueId"`
	Name            string          `json:"name"`
	RemainingBudget int64           `json:"remainingBudget"`
	SpentBudget     int64           `json:"spentBudget"`
	Roster          []rosterSlotDTO `json:"roster"`
}

type playerDTO struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Position string `json:"position"`
	NFLTeam  string `json:"nflTeam"`
}

type draftSlotDTO struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName,omitempty"`
}

type nominationDTO struct {
	PlayerID                string `json:"playerId"`
	NominatedByUserID       string `json:"nominatedByUserId"`
	NominatedByTeamID       string `json:"nominatedByTeamId"`
	StartingBid             int64  `json:"startingBid"`
	CurrentBid              int64  `json:"currentBid"`
	CurrentHighBidderTeamID string `json:"currentHighBidderTeamId"`
	AuctionStartUTC         string `json:"auctionStartUtc"`
	AuctionEndUTC           string `json:"auctionEndUtc"`
}

type historyEntryDTO struct {
	Event        string `json:"event"`
	UserID       string `json:"userId,omitempty"`
	TeamID       string `json:"teamId,omitempty"`
	PlayerID     string `json:"playerId,omitempty"`
	Amount       int64  `json:"amount,omitempty"`
	TimestampUTC string `json:"timestampUtc"`
	Description  string `json:"description,omitempty"`
}

type draftSettingsDTO struct {
	NominationTimer int `json:"nominationTimerSeconds"`
	AuctionTimer    int `json:"auctionTimerSeconds"`
}

type draftDTO struct {
	ID           string            `json:"id"`
	LeagueID     string            `json:"leagueId"`
	Status       string            `json:"status"`
	Order        []draftSlotDTO    `json:"order"`
	TurnIndex    int               `json:"turnIndex"`
	TurnUserID   string            `json:"turnUserId,omitempty"`
	Nomination   *nominationDTO    `json:"nomination,omitempty"`
	Settings     draftSettingsDTO  `json:"settings"`
	History      []historyEntryDTO `json:"history"`
	Version      int64             `json:"version"`
	CreatedAtUTC string            `json:"createdAtUtc"`
	UpdatedAtUTC string            `json:"updatedAtUtc"`
}

func leagueToDTO(ctx context.Context, v league.League) leagueDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueToDTO")
	defer span.End()

	return leagueDTO{
		ID:             v.ID,
		Name:           v.Name,
		LeagueCode:     v.LeagueCode,
		CommissionerID: v.CommissionerID,
		TeamSize:       v.TeamSize,
		PlayerBudget:   v.PlayerBudget,
		CreatedAtUTC:   v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:   v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func memberToDTO(v league.Member) memberDTO {
	return memberDTO{
		UserID:      v.UserID,
		Username:    v.Username,
		JoinedAtUTC: v.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	roster := make([]rosterSlotDTO, 0, len(v.Roster))
	for _, slot := range v.Roster {
		roster = append(roster, rosterSlotDTO{
			PlayerID:      slot.PlayerID,
			PurchasePrice: slot.PurchasePrice,
		})
	}

	return teamDTO{
		ID:              v.ID,
		UserID:          v.UserID,
		LeagueID:        v.LeagueID,
		Name:            v.Name,
		RemainingBudget: v.RemainingBudget,
		SpentBudget:     v.SpentBudget(),
		Roster:          roster,
	}
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:       v.ID,
		FullName: v.FullName,
		Position: string(v.Position),
		NFLTeam:  v.NFLTeam,
	}
}

// draftNames carries the resolved display names for a draft's
// participants. Empty maps degrade the DTO to bare ids.
type draftNames struct {
	usernameByUserID map[string]string
	teamNameByID     map[string]string
}

func draftToDTO(ctx context.Context, v draft.Draft, names draftNames) draftDTO {
	ctx, span := startSpan(ctx, "httpapi.draftToDTO")
	defer span.End()

	order := make([]draftSlotDTO, 0, len(v.Order))
	for _, slot := range v.Order {
		order = append(order, draftSlotDTO{
			UserID:   slot.UserID,
			Username: names.usernameByUserID[slot.UserID],
			TeamID:   slot.TeamID,
			TeamName: names.teamNameByID[slot.TeamID],
		})
	}

	history := make([]historyEntryDTO, 0, len(v.History))
	for _, entry := range v.History {
		history = append(history, historyEntryDTO{
			Event:        string(entry.Event),
			UserID:       entry.UserID,
			TeamID:       entry.TeamID,
			PlayerID:     entry.PlayerID,
			Amount:       entry.Amount,
			TimestampUTC: entry.Timestamp.UTC().Format(time.RFC3339),
			Description:  entry.Description,
		})
	}

	dto := draftDTO{
		ID:        v.ID,
		LeagueID:  v.LeagueID,
		Status:    string(v.Status),
		Order:     order,
		TurnIndex: v.TurnIndex,
		Settings: draftSettingsDTO{
			NominationTimer: v.Settings.NominationTimer,
			AuctionTimer:    v.Settings.AuctionTimer,
		},
		History:      history,
		Version:      v.Version,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if turn, ok := v.CurrentTurn(); ok {
		dto.TurnUserID = turn.UserID
	}
	if v.Nomination != nil {
		dto.Nomination = &nominationDTO{
			PlayerID:                v.Nomination.PlayerID,
			NominatedByUserID:       v.Nomination.NominatedByUserID,
			NominatedByTeamID:       v.Nomination.NominatedByTeamID,
			StartingBid:             v.Nomination.StartingBid,
			CurrentBid:              v.Nomination.CurrentBid,
			CurrentHighBidderTeamID: v.Nomination.CurrentHighBidderTeamID,
			AuctionStartUTC:         v.Nomination.AuctionStart.UTC().Format(time.RFC3339),
			AuctionEndUTC:           v.Nomination.AuctionEnd.UTC().Format(time.RFC3339),
		}
	}

	return dto
}
