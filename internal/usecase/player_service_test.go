package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/player"
	"github.com/zhangzheng888/gridiron-auction/internal/infrastructure/repository/memory"
	"github.com/zhangzheng888/gridiron-auction/internal/platform/cache"
)

type countingPlayerRepo struct {
	inner    player.Repository
	searches atomic.Int64
}

func (r *countingPlayerRepo) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.inner.GetByID(ctx, playerID)
}

func (r *countingPlayerRepo) Search(ctx context.Context, nameQuery string, limit int) ([]player.Player, error) {
	r.searches.Add(1)

	return r.inner.Search(ctx, nameQuery, limit)
}

func TestPlayerService_GetPlayer(t *testing.T) {
	service := NewPlayerService(memory.NewPlayerRepository(memory.SeedPlayers()), nil)

	p, err := service.GetPlayer(t.Context(), "nfl-qb-01")
	if err != nil {
		t.Fatalf("get player failed: %v", err)
	}
	if p.FullName != "Patrick Mahomes" {
		t.Fatalf("unexpected player: %+v", p)
	}

	if _, err := service.GetPlayer(t.Context(), "nfl-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.GetPlayer(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlayerService_SearchPlayers(t *testing.T) {
	service := NewPlayerService(memory.NewPlayerRepository(memory.SeedPlayers()), nil)

	results, err := service.SearchPlayers(t.Context(), "JEFFERSON", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "nfl-wr-01" {
		t.Fatalf("expected exactly Justin Jefferson, got %+v", results)
	}

	limited, err := service.SearchPlayers(t.Context(), "", 3)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(limited) != 3 {
		t.Fatalf("expected 3 results, got %d", len(limited))
	}
}

func TestPlayerService_SearchPlayers_Cached(t *testing.T) {
	repo := &countingPlayerRepo{inner: memory.NewPlayerRepository(memory.SeedPlayers())}
	service := NewPlayerService(repo, cache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		results, err := service.SearchPlayers(t.Context(), "mahomes", 10)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
	}

	if got := repo.searches.Load(); got != 1 {
		t.Fatalf("expected a single repository search behind the cache, got %d", got)
	}
}
