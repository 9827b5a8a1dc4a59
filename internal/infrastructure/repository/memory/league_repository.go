package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	items   map[string]league.League
	byCode  map[string]string
	members map[string][]league.Member
	orders  []string
}

func NewLeagueRepository(leagues []league.League, members map[string][]league.Member) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	byCode := make(map[string]string, len(leagues))
	orders := make([]string, 0, len(leagues))

	for _, l := range leagues {
		items[l.ID] = l
		byCode[l.LeagueCode] = l.ID
		orders = append(orders, l.ID)
	}

	seeded := make(map[string][]league.Member, len(members))
	for leagueID, ms := range members {
		seeded[leagueID] = append([]league.Member(nil), ms...)
	}

	return &LeagueRepository{
		items:   items,
		byCode:  byCode,
		members: seeded,
		orders:  orders,
	}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[l.ID]; ok {
		return fmt.Errorf("league %s already exists", l.ID)
	}
	if _, ok := r.byCode[l.LeagueCode]; ok {
		return fmt.Errorf("league code %s already in use", l.LeagueCode)
	}

	r.items[l.ID] = l
	r.byCode[l.LeagueCode] = l.ID
	r.orders = append(r.orders, l.ID)

	return nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) GetByCode(_ context.Context, leagueCode string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[leagueCode]
	if !ok {
		return league.League{}, false, nil
	}

	return r.items[id], true, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]league.Member(nil), r.members[leagueID]...), nil
}

func (r *LeagueRepository) AddMember(_ context.Context, leagueID string, m league.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[leagueID]; !ok {
		return fmt.Errorf("league %s does not exist", leagueID)
	}
	for _, existing := range r.members[leagueID] {
		if existing.UserID == m.UserID {
			return fmt.Errorf("user %s is already a member of league %s", m.UserID, leagueID)
		}
	}

	r.members[leagueID] = append(r.members[leagueID], m)

	return nil
}

func (r *LeagueRepository) IsMember(_ context.Context, leagueID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members[leagueID] {
		if m.UserID == userID {
			return true, nil
		}
	}

	return false, nil
}
