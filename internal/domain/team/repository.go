package team

import "context"

// Repository describes team persistence needs from use cases.
//
// Budget debits and roster appends always travel through the draft
// repository's transactional update so a settlement can never leave a
// team debited without the matching roster entry.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByUserAndLeague(ctx context.Context, userID, leagueID string) (Team, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
	Upsert(ctx context.Context, t Team) error
}
