package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/team"
	qb "github.com/zhangzheng888/gridiron-auction/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

var teamSelectColumns = []string{
	"id",
	"public_id",
	"user_id",
	"league_public_id",
	"name",
	"remaining_budget",
	"roster",
	"created_at",
	"updated_at",
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", teamID))
}

func (r *TeamRepository) GetByUserAndLeague(ctx context.Context, userID, leagueID string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("user_id", userID), qb.Eq("league_public_id", leagueID))
}

func (r *TeamRepository) getOne(ctx context.Context, conds ...qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(conds...).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	t, err := teamFromRow(row)
	if err != nil {
		return team.Team{}, false, err
	}
	return t, true, nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		t, err := teamFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) error {
	return upsertTeam(ctx, r.db, t)
}

// upsertTeam is shared with the draft repository so settlement can
// write the winning team inside the draft transaction.
func upsertTeam(ctx context.Context, ext sqlx.ExtContext, t team.Team) error {
	roster := make([]rosterSlotJSON, 0, len(t.Roster))
	for _, slot := range t.Roster {
		roster = append(roster, rosterSlotJSON{
			PlayerID:      slot.PlayerID,
			PurchasePrice: slot.PurchasePrice,
		})
	}
	rosterData, err := marshalJSONB(roster)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}

	const upsertQuery = `
INSERT INTO teams (public_id, user_id, league_public_id, name, remaining_budget, roster, created_at, updated_at)
VALUES (:public_id, :user_id, :league_public_id, :name, :remaining_budget, :roster, :created_at, :updated_at)
ON CONFLICT (user_id, league_public_id)
DO UPDATE SET
    name = EXCLUDED.name,
    remaining_budget = EXCLUDED.remaining_budget,
    roster = EXCLUDED.roster,
    updated_at = EXCLUDED.updated_at`

	query, args, err := sqlx.Named(upsertQuery, map[string]any{
		"public_id":        t.ID,
		"user_id":          t.UserID,
		"league_public_id": t.LeagueID,
		"name":             t.Name,
		"remaining_budget": t.RemainingBudget,
		"roster":           rosterData,
		"created_at":       t.CreatedAt,
		"updated_at":       t.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind upsert team query: %w", err)
	}
	query = ext.Rebind(query)

	if _, err := ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}

	return nil
}

func teamFromRow(row teamTableModel) (team.Team, error) {
	var roster []rosterSlotJSON
	if err := unmarshalJSONB(row.Roster, &roster); err != nil {
		return team.Team{}, fmt.Errorf("decode roster for team %s: %w", row.PublicID, err)
	}

	slots := make([]team.RosterSlot, 0, len(roster))
	for _, slot := range roster {
		slots = append(slots, team.RosterSlot{
			PlayerID:      slot.PlayerID,
			PurchasePrice: slot.PurchasePrice,
		})
	}

	return team.Team{
		ID:              row.PublicID,
		UserID:          row.UserID,
		LeagueID:        row.LeaguePublicID,
		Name:            row.Name,
		RemainingBudget: row.RemainingBudget,
		Roster:          slots,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}
