package draft

import (
	"context"
	"errors"
	"time"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/team"
)

var (
	// ErrVersionMismatch means the draft changed between read and write.
	// Callers re-read and re-validate before retrying.
	ErrVersionMismatch = errors.New("draft version mismatch")

	// ErrLeagueDraftExists enforces one draft per league at creation.
	ErrLeagueDraftExists = errors.New("league already has a draft")
)

// Repository persists the draft aggregate with optimistic concurrency.
// Update and UpdateWithTeams compare expectedVersion against the stored
// row and fail with ErrVersionMismatch on stale writes; on success the
// stored version is expectedVersion+1.
type Repository interface {
	Create(ctx context.Context, d Draft) error
	GetByID(ctx context.Context, draftID string) (Draft, bool, error)
	GetByLeague(ctx context.Context, leagueID string) (Draft, bool, error)
	Update(ctx context.Context, d Draft, expectedVersion int64) error

	// UpdateWithTeams writes the draft and the given teams in one
	// transaction. Used by start (budget resets) and by the sold branch
	// of settlement (budget debit + roster append).
	UpdateWithTeams(ctx context.Context, d Draft, expectedVersion int64, teams []team.Team) error

	// ListDueForSettlement returns ids of active drafts whose live
	// auction deadline has passed. The sweeper feeds these back through
	// the ordinary settle operation.
	ListDueForSettlement(ctx context.Context, now time.Time, limit int) ([]string, error)
}
