package team

import (
	"fmt"
	"time"
)

// RosterSlot is one player a team won at auction and what it paid.
type RosterSlot struct {
	PlayerID      string
	PurchasePrice int64
}

// Team is one league member's auction team: a budget and the roster
// bought with it. remainingBudget never goes below zero; it only
// decreases by exactly the winning bid of a settled auction.
type Team struct {
	ID              string
	UserID          string
	LeagueID        string
	Name            string
	RemainingBudget int64
	Roster          []RosterSlot
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("team user id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.RemainingBudget < 0 {
		return fmt.Errorf("team remaining budget cannot be negative")
	}

	return nil
}

// HasPlayer reports whether playerID is already on this team's roster.
func (t Team) HasPlayer(playerID string) bool {
	for _, slot := range t.Roster {
		if slot.PlayerID == playerID {
			return true
		}
	}

	return false
}

// SpentBudget is the sum of purchase prices across the roster.
func (t Team) SpentBudget() int64 {
	var total int64
	for _, slot := range t.Roster {
		total += slot.PurchasePrice
	}

	return total
}
