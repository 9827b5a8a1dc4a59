package memory

import (
	"context"
	"sync"
	"time"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/team"
)

type DraftRepository struct {
	mu       sync.Mutex
	items    map[string]draft.Draft
	byLeague map[string]string
	teams    *TeamRepository
}

// NewDraftRepository couples draft writes with the team repository so
// UpdateWithTeams commits both under the draft lock, mirroring the
// single transaction the SQL implementation uses.
func NewDraftRepository(teams *TeamRepository) *DraftRepository {
	return &DraftRepository{
		items:    make(map[string]draft.Draft),
		byLeague: make(map[string]string),
		teams:    teams,
	}
}

func (r *DraftRepository) Create(_ context.Context, d draft.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byLeague[d.LeagueID]; ok {
		return draft.ErrLeagueDraftExists
	}

	r.items[d.ID] = d.Clone()
	r.byLeague[d.LeagueID] = d.ID

	return nil
}

func (r *DraftRepository) GetByID(_ context.Context, draftID string) (draft.Draft, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.items[draftID]
	if !ok {
		return draft.Draft{}, false, nil
	}

	return d.Clone(), true, nil
}

func (r *DraftRepository) GetByLeague(_ context.Context, leagueID string) (draft.Draft, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byLeague[leagueID]
	if !ok {
		return draft.Draft{}, false, nil
	}

	return r.items[id].Clone(), true, nil
}

func (r *DraftRepository) Update(_ context.Context, d draft.Draft, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.commitLocked(d, expectedVersion)
}

func (r *DraftRepository) UpdateWithTeams(_ context.Context, d draft.Draft, expectedVersion int64, teams []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.commitLocked(d, expectedVersion); err != nil {
		return err
	}
	for _, t := range teams {
		r.teams.mu.Lock()
		r.teams.items[t.ID] = cloneTeam(t)
		r.teams.mu.Unlock()
	}

	return nil
}

func (r *DraftRepository) ListDueForSettlement(_ context.Context, now time.Time, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for id, d := range r.items {
		if d.Status != draft.StatusActive || d.Nomination == nil {
			continue
		}
		if now.Before(d.Nomination.AuctionEnd) {
			continue
		}
		out = append(out, id)
		if limit > 0 && len(out) >= limit {
			break
		}
	}

	return out, nil
}

// commitLocked is the compare-and-swap: the write only lands if the
// stored version still matches what the caller read.
func (r *DraftRepository) commitLocked(d draft.Draft, expectedVersion int64) error {
	current, ok := r.items[d.ID]
	if !ok {
		return draft.ErrVersionMismatch
	}
	if current.Version != expectedVersion {
		return draft.ErrVersionMismatch
	}

	next := d.Clone()
	next.Version = expectedVersion + 1
	r.items[d.ID] = next

	return nil
}
