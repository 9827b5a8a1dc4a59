package league

import (
	"fmt"
	"time"
)

const (
	MinTeamSize = 4
	MaxTeamSize = 20

	// DefaultPlayerBudget is the auction budget each team starts with
	// unless the league overrides it.
	DefaultPlayerBudget int64 = 200
)

// League is a private fantasy football league run by a commissioner.
type League struct {
	ID             string
	Name           string
	LeagueCode     string
	CommissionerID string
	TeamSize       int
	PlayerBudget   int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Member is a user who has joined a league.
type Member struct {
	UserID   string
	Username string
	JoinedAt time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.CommissionerID == "" {
		return fmt.Errorf("league commissioner id is required")
	}
	if l.TeamSize < MinTeamSize || l.TeamSize > MaxTeamSize {
		return fmt.Errorf("league team size must be between %d and %d", MinTeamSize, MaxTeamSize)
	}
	if l.PlayerBudget < 0 {
		return fmt.Errorf("league player budget cannot be negative")
	}

	return nil
}
