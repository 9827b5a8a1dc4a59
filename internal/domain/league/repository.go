package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, l League) error
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByCode(ctx context.Context, leagueCode string) (League, bool, error)
	ListMembers(ctx context.Context, leagueID string) ([]Member, error)
	AddMember(ctx context.Context, leagueID string, m Member) error
	IsMember(ctx context.Context, leagueID, userID string) (bool, error)
}
