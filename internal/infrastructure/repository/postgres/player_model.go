package postgres

import "time"

type playerTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	FullName  string    `db:"full_name"`
	Position  string    `db:"position"`
	NFLTeam   string    `db:"nfl_team"`
	CreatedAt time.Time `db:"created_at"`
}
