package postgres

import (
	"fmt"
	"time"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
)

type draftTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	LeaguePublicID  string     `db:"league_public_id"`
	Status          string     `db:"status"`
	TurnIndex       int        `db:"turn_index"`
	NominationOrder []byte     `db:"nomination_order"`
	Nomination      []byte     `db:"nomination"`
	History         []byte     `db:"history"`
	NominationTimer int        `db:"nomination_timer"`
	AuctionTimer    int        `db:"auction_timer"`
	AuctionEnd      *time.Time `db:"auction_end"`
	Version         int64      `db:"version"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

type orderSlotJSON struct {
	UserID string `json:"userId"`
	TeamID string `json:"teamId"`
}

type nominationJSON struct {
	PlayerID                string    `json:"playerId"`
	NominatedByUserID       string    `json:"nominatedByUserId"`
	NominatedByTeamID       string    `json:"nominatedByTeamId"`
	StartingBid             int64     `json:"startingBid"`
	CurrentBid              int64     `json:"currentBid"`
	CurrentHighBidderTeamID string    `json:"currentHighBidderTeamId"`
	AuctionStart            time.Time `json:"auctionStart"`
	AuctionEnd              time.Time `json:"auctionEnd"`
}

type historyEntryJSON struct {
	Event       string    `json:"event"`
	UserID      string    `json:"userId,omitempty"`
	TeamID      string    `json:"teamId,omitempty"`
	PlayerID    string    `json:"playerId,omitempty"`
	Amount      int64     `json:"amount,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description,omitempty"`
}

func draftToRow(d draft.Draft) (draftTableModel, error) {
	order := make([]orderSlotJSON, 0, len(d.Order))
	for _, slot := range d.Order {
		order = append(order, orderSlotJSON{UserID: slot.UserID, TeamID: slot.TeamID})
	}
	orderData, err := marshalJSONB(order)
	if err != nil {
		return draftTableModel{}, fmt.Errorf("encode nomination order: %w", err)
	}

	history := make([]historyEntryJSON, 0, len(d.History))
	for _, entry := range d.History {
		history = append(history, historyEntryJSON{
			Event:       string(entry.Event),
			UserID:      entry.UserID,
			TeamID:      entry.TeamID,
			PlayerID:    entry.PlayerID,
			Amount:      entry.Amount,
			Timestamp:   entry.Timestamp,
			Description: entry.Description,
		})
	}
	historyData, err := marshalJSONB(history)
	if err != nil {
		return draftTableModel{}, fmt.Errorf("encode history: %w", err)
	}

	row := draftTableModel{
		PublicID:        d.ID,
		LeaguePublicID:  d.LeagueID,
		Status:          string(d.Status),
		TurnIndex:       d.TurnIndex,
		NominationOrder: orderData,
		History:         historyData,
		NominationTimer: d.Settings.NominationTimer,
		AuctionTimer:    d.Settings.AuctionTimer,
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	if d.Nomination != nil {
		nomData, err := marshalJSONB(nominationJSON{
			PlayerID:                d.Nomination.PlayerID,
			NominatedByUserID:       d.Nomination.NominatedByUserID,
			NominatedByTeamID:       d.Nomination.NominatedByTeamID,
			StartingBid:             d.Nomination.StartingBid,
			CurrentBid:              d.Nomination.CurrentBid,
			CurrentHighBidderTeamID: d.Nomination.CurrentHighBidderTeamID,
			AuctionStart:            d.Nomination.AuctionStart,
			AuctionEnd:              d.Nomination.AuctionEnd,
		})
		if err != nil {
			return draftTableModel{}, fmt.Errorf("encode nomination: %w", err)
		}
		row.Nomination = nomData

		// Denormalized so the settlement sweep can index-scan deadlines
		// without unpacking JSONB.
		end := d.Nomination.AuctionEnd
		row.AuctionEnd = &end
	}

	return row, nil
}

func draftFromRow(row draftTableModel) (draft.Draft, error) {
	var order []orderSlotJSON
	if err := unmarshalJSONB(row.NominationOrder, &order); err != nil {
		return draft.Draft{}, fmt.Errorf("decode nomination order for draft %s: %w", row.PublicID, err)
	}
	slots := make([]draft.Slot, 0, len(order))
	for _, slot := range order {
		slots = append(slots, draft.Slot{UserID: slot.UserID, TeamID: slot.TeamID})
	}

	var history []historyEntryJSON
	if err := unmarshalJSONB(row.History, &history); err != nil {
		return draft.Draft{}, fmt.Errorf("decode history for draft %s: %w", row.PublicID, err)
	}
	entries := make([]draft.HistoryEntry, 0, len(history))
	for _, entry := range history {
		entries = append(entries, draft.HistoryEntry{
			Event:       draft.EventType(entry.Event),
			UserID:      entry.UserID,
			TeamID:      entry.TeamID,
			PlayerID:    entry.PlayerID,
			Amount:      entry.Amount,
			Timestamp:   entry.Timestamp,
			Description: entry.Description,
		})
	}

	d := draft.Draft{
		ID:        row.PublicID,
		LeagueID:  row.LeaguePublicID,
		Status:    draft.Status(row.Status),
		Order:     slots,
		TurnIndex: row.TurnIndex,
		Settings: draft.Settings{
			NominationTimer: row.NominationTimer,
			AuctionTimer:    row.AuctionTimer,
		},
		History:   entries,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if len(row.Nomination) > 0 {
		var nom nominationJSON
		if err := unmarshalJSONB(row.Nomination, &nom); err != nil {
			return draft.Draft{}, fmt.Errorf("decode nomination for draft %s: %w", row.PublicID, err)
		}
		d.Nomination = &draft.Nomination{
			PlayerID:                nom.PlayerID,
			NominatedByUserID:       nom.NominatedByUserID,
			NominatedByTeamID:       nom.NominatedByTeamID,
			StartingBid:             nom.StartingBid,
			CurrentBid:              nom.CurrentBid,
			CurrentHighBidderTeamID: nom.CurrentHighBidderTeamID,
			AuctionStart:            nom.AuctionStart,
			AuctionEnd:              nom.AuctionEnd,
		}
	}

	return d, nil
}
