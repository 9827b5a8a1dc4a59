package memory

import (
	"time"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/league"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/player"
)

const (
	SeedLeagueID     = "demo-league"
	SeedLeagueCode   = "A1B2C3"
	SeedCommissioner = "user-alice"
)

var seedTime = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:             SeedLeagueID,
			Name:           "Sunday Showdown",
			LeagueCode:     SeedLeagueCode,
			CommissionerID: SeedCommissioner,
			TeamSize:       8,
			PlayerBudget:   league.DefaultPlayerBudget,
			CreatedAt:      seedTime,
			UpdatedAt:      seedTime,
		},
	}
}

func SeedMembers() map[string][]league.Member {
	return map[string][]league.Member{
		SeedLeagueID: {
			{UserID: SeedCommissioner, Username: "alice", JoinedAt: seedTime},
			{UserID: "user-bob", Username: "bob", JoinedAt: seedTime},
			{UserID: "user-carol", Username: "carol", JoinedAt: seedTime},
		},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "nfl-qb-01", FullName: "Patrick Mahomes", Position: player.PositionQuarterback, NFLTeam: "KC"},
		{ID: "nfl-qb-02", FullName: "Josh Allen", Position: player.PositionQuarterback, NFLTeam: "BUF"},
		{ID: "nfl-qb-03", FullName: "Jalen Hurts", Position: player.PositionQuarterback, NFLTeam: "PHI"},
		{ID: "nfl-rb-01", FullName: "Christian McCaffrey", Position: player.PositionRunningBack, NFLTeam: "SF"},
		{ID: "nfl-rb-02", FullName: "Saquon Barkley", Position: player.PositionRunningBack, NFLTeam: "PHI"},
		{ID: "nfl-rb-03", FullName: "Bijan Robinson", Position: player.PositionRunningBack, NFLTeam: "ATL"},
		{ID: "nfl-rb-04", FullName: "Derrick Henry", Position: player.PositionRunningBack, NFLTeam: "BAL"},
		{ID: "nfl-wr-01", FullName: "Justin Jefferson", Position: player.PositionWideReceiver, NFLTeam: "MIN"},
		{ID: "nfl-wr-02", FullName: "Ja'Marr Chase", Position: player.PositionWideReceiver, NFLTeam: "CIN"},
		{ID: "nfl-wr-03", FullName: "CeeDee Lamb", Position: player.PositionWideReceiver, NFLTeam: "DAL"},
		{ID: "nfl-wr-04", FullName: "Amon-Ra St. Brown", Position: player.PositionWideReceiver, NFLTeam: "DET"},
		{ID: "nfl-wr-05", FullName: "Tyreek Hill", Position: player.PositionWideReceiver, NFLTeam: "MIA"},
		{ID: "nfl-te-01", FullName: "Travis Kelce", Position: player.PositionTightEnd, NFLTeam: "KC"},
		{ID: "nfl-te-02", FullName: "Sam LaPorta", Position: player.PositionTightEnd, NFLTeam: "DET"},
		{ID: "nfl-k-01", FullName: "Justin Tucker", Position: player.PositionKicker, NFLTeam: "BAL"},
		{ID: "nfl-k-02", FullName: "Harrison Butker", Position: player.PositionKicker, NFLTeam: "KC"},
		{ID: "nfl-dst-01", FullName: "49ers Defense", Position: player.PositionDefense, NFLTeam: "SF"},
		{ID: "nfl-dst-02", FullName: "Ravens Defense", Position: player.PositionDefense, NFLTeam: "BAL"},
	}
}
