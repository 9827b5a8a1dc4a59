package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/team"
	qb "github.com/zhangzheng888/gridiron-auction/internal/platform/querybuilder"
)

type DraftRepository struct {
	db *sqlx.DB
}

var draftSelectColumns = []string{
	"id",
	"public_id",
	"league_public_id",
	"status",
	"turn_index",
	"nomination_order",
	"nomination",
	"history",
	"nomination_timer",
	"auction_timer",
	"auction_end",
	"version",
	"created_at",
	"updated_at",
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Create(ctx context.Context, d draft.Draft) error {
	row, err := draftToRow(d)
	if err != nil {
		return err
	}

	const insertQuery = `
INSERT INTO drafts (
    public_id,
    league_public_id,
    status,
    turn_index,
    nomination_order,
    nomination,
    history,
    nomination_timer,
    auction_timer,
    auction_end,
    version,
    created_at,
    updated_at
) VALUES (
    :public_id,
    :league_public_id,
    :status,
    :turn_index,
    :nomination_order,
    :nomination,
    :history,
    :nomination_timer,
    :auction_timer,
    :auction_end,
    :version,
    :created_at,
    :updated_at
)`

	query, args, err := sqlx.Named(insertQuery, draftNamedArgs(row))
	if err != nil {
		return fmt.Errorf("bind insert draft query: %w", err)
	}
	query = r.db.Rebind(query)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "drafts_league_public_id_key") {
			return draft.ErrLeagueDraftExists
		}
		return fmt.Errorf("insert draft: %w", err)
	}

	return nil
}

func (r *DraftRepository) GetByID(ctx context.Context, draftID string) (draft.Draft, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", draftID))
}

func (r *DraftRepository) GetByLeague(ctx context.Context, leagueID string) (draft.Draft, bool, error) {
	return r.getOne(ctx, qb.Eq("league_public_id", leagueID))
}

func (r *DraftRepository) getOne(ctx context.Context, cond qb.Condition) (draft.Draft, bool, error) {
	query, args, err := qb.Select(draftSelectColumns...).From("drafts").
		Where(cond).
		ToSQL()
	if err != nil {
		return draft.Draft{}, false, fmt.Errorf("build get draft query: %w", err)
	}

	var row draftTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return draft.Draft{}, false, nil
		}
		return draft.Draft{}, false, fmt.Errorf("get draft: %w", err)
	}

	d, err := draftFromRow(row)
	if err != nil {
		return draft.Draft{}, false, err
	}

	return d, true, nil
}

func (r *DraftRepository) Update(ctx context.Context, d draft.Draft, expectedVersion int64) error {
	return r.updateDraft(ctx, r.db, d, expectedVersion)
}

func (r *DraftRepository) UpdateWithTeams(ctx context.Context, d draft.Draft, expectedVersion int64, teams []team.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin draft update tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.updateDraft(ctx, tx, d, expectedVersion); err != nil {
		return err
	}
	for _, t := range teams {
		if err := upsertTeam(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit draft update tx: %w", err)
	}

	return nil
}

func (r *DraftRepository) ListDueForSettlement(ctx context.Context, now time.Time, limit int) ([]string, error) {
	query, args, err := qb.Select("public_id").From("drafts").
		Where(
			qb.Eq("status", string(draft.StatusActive)),
			qb.Lte("auction_end", now),
		).
		OrderBy("auction_end").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build due drafts query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select due drafts: %w", err)
	}

	return ids, nil
}

// updateDraft is the optimistic write: the row only changes when the
// stored version still matches what the caller read, and the version
// advances by one in the same statement.
func (r *DraftRepository) updateDraft(ctx context.Context, ext sqlx.ExtContext, d draft.Draft, expectedVersion int64) error {
	row, err := draftToRow(d)
	if err != nil {
		return err
	}

	const updateQuery = `
UPDATE drafts SET
    status = :status,
    turn_index = :turn_index,
    nomination_order = :nomination_order,
    nomination = :nomination,
    history = :history,
    nomination_timer = :nomination_timer,
    auction_timer = :auction_timer,
    auction_end = :auction_end,
    version = :expected_version + 1,
    updated_at = :updated_at
WHERE public_id = :public_id
  AND version = :expected_version`

	namedArgs := draftNamedArgs(row)
	namedArgs["expected_version"] = expectedVersion

	query, args, err := sqlx.Named(updateQuery, namedArgs)
	if err != nil {
		return fmt.Errorf("bind update draft query: %w", err)
	}
	query = ext.Rebind(query)

	result, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read update draft result: %w", err)
	}
	if affected == 0 {
		return draft.ErrVersionMismatch
	}

	return nil
}

func draftNamedArgs(row draftTableModel) map[string]any {
	return map[string]any{
		"public_id":        row.PublicID,
		"league_public_id": row.LeaguePublicID,
		"status":           row.Status,
		"turn_index":       row.TurnIndex,
		"nomination_order": row.NominationOrder,
		"nomination":       row.Nomination,
		"history":          row.History,
		"nomination_timer": row.NominationTimer,
		"auction_timer":    row.AuctionTimer,
		"auction_end":      row.AuctionEnd,
		"version":          row.Version,
		"created_at":       row.CreatedAt,
		"updated_at":       row.UpdatedAt,
	}
}
