package memory

import (
	"context"
	"sync"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		items[t.ID] = cloneTeam(t)
	}

	return &TeamRepository{items: items}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return cloneTeam(t), true, nil
}

func (r *TeamRepository) GetByUserAndLeague(_ context.Context, userID, leagueID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.items {
		if t.UserID == userID && t.LeagueID == leagueID {
			return cloneTeam(t), true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Team
	for _, t := range r.items {
		if t.LeagueID == leagueID {
			out = append(out, cloneTeam(t))
		}
	}

	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[t.ID] = cloneTeam(t)

	return nil
}

func cloneTeam(t team.Team) team.Team {
	t.Roster = append([]team.RosterSlot(nil), t.Roster...)

	return t
}
