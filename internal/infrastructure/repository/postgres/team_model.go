package postgres

import "time"

type teamTableModel struct {
	ID              int64     `db:"id"`
	PublicID        string    `db:"public_id"`
	UserID          string    `db:"user_id"`
	LeaguePublicID  string    `db:"league_public_id"`
	Name            string    `db:"name"`
	RemainingBudget int64     `db:"remaining_budget"`
	Roster          []byte    `db:"roster"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type rosterSlotJSON struct {
	PlayerID      string `json:"playerId"`
	PurchasePrice int64  `json:"purchasePrice"`
}
