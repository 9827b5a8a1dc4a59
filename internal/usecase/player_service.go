package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/player"
	"github.com/zhangzheng888/gridiron-auction/internal/platform/cache"
)

const defaultSearchLimit = 50

type PlayerService struct {
	playerRepo player.Repository
	cache      *cache.Store
}

// NewPlayerService wraps the catalog with an optional TTL cache; pass a
// nil store to read through on every call.
func NewPlayerService(playerRepo player.Repository, store *cache.Store) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		cache:      store,
	}
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return p, nil
}

// SearchPlayers runs a case-insensitive name search. The catalog is
// read-only during a draft, so results cache well; concurrent misses on
// the same query collapse into one repository call.
func (s *PlayerService) SearchPlayers(ctx context.Context, nameQuery string, limit int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SearchPlayers")
	defer span.End()

	nameQuery = strings.TrimSpace(nameQuery)
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	if s.cache == nil {
		players, err := s.playerRepo.Search(ctx, nameQuery, limit)
		if err != nil {
			return nil, fmt.Errorf("search players: %w", err)
		}
		return players, nil
	}

	key := fmt.Sprintf("players:search:%s:%d", strings.ToLower(nameQuery), limit)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.playerRepo.Search(ctx, nameQuery, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}

	players, ok := value.([]player.Player)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry type for %s", key)
	}

	return players, nil
}
