package player

import "context"

// Repository is the read-only player catalog.
type Repository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	Search(ctx context.Context, nameQuery string, limit int) ([]Player, error)
}
