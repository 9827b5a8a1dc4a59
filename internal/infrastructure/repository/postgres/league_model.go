package postgres

import "time"

type leagueTableModel struct {
	ID             int64     `db:"id"`
	PublicID       string    `db:"public_id"`
	Name           string    `db:"name"`
	LeagueCode     string    `db:"league_code"`
	CommissionerID string    `db:"commissioner_id"`
	TeamSize       int       `db:"team_size"`
	PlayerBudget   int64     `db:"player_budget"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	PublicID       string    `db:"public_id"`
	Name           string    `db:"name"`
	LeagueCode     string    `db:"league_code"`
	CommissionerID string    `db:"commissioner_id"`
	TeamSize       int       `db:"team_size"`
	PlayerBudget   int64     `db:"player_budget"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type leagueMemberTableModel struct {
	ID             int64     `db:"id"`
	LeaguePublicID string    `db:"league_public_id"`
	UserID         string    `db:"user_id"`
	Username       string    `db:"username"`
	JoinedAt       time.Time `db:"joined_at"`
}

type leagueMemberInsertModel struct {
	LeaguePublicID string    `db:"league_public_id"`
	UserID         string    `db:"user_id"`
	Username       string    `db:"username"`
	JoinedAt       time.Time `db:"joined_at"`
}
