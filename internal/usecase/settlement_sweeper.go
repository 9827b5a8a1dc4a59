package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/user"
)

const defaultSweepBatchSize = 64

// sweepPrincipal triggers settlements on behalf of the platform. The
// outcome of a settlement never depends on who invoked it.
var sweepPrincipal = user.Principal{
	UserID:   "system-sweeper",
	Username: "system",
	Role:     user.RoleSuperadmin,
}

// SettlementSweeper periodically settles auctions whose deadline has
// passed without a client calling settle. It is an operational
// convenience only: settlement stays correct no matter how late it
// runs, so a crashed or lagging sweeper loses nothing.
type SettlementSweeper struct {
	drafts   *DraftService
	repo     draft.Repository
	pool     *ants.Pool
	interval time.Duration
	logger   *slog.Logger
}

func NewSettlementSweeper(drafts *DraftService, repo draft.Repository, interval time.Duration, concurrency int, logger *slog.Logger) (*SettlementSweeper, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(concurrency, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("create settlement pool: %w", err)
	}

	return &SettlementSweeper{
		drafts:   drafts,
		repo:     repo,
		pool:     pool,
		interval: interval,
		logger:   logger,
	}, nil
}

// Run blocks until ctx is done, sweeping once per interval.
func (s *SettlementSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.pool.Release()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.WarnContext(ctx, "settlement sweep failed", "error", err)
			}
		}
	}
}

// SweepOnce settles every currently due auction and returns how many
// settlements committed.
func (s *SettlementSweeper) SweepOnce(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementSweeper.SweepOnce")
	defer span.End()

	due, err := s.repo.ListDueForSettlement(ctx, time.Now().UTC(), defaultSweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list due drafts: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		settled int
	)
	for _, draftID := range due {
		draftID := draftID
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			if s.settleOne(ctx, draftID) {
				mu.Lock()
				settled++
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			s.logger.WarnContext(ctx, "submit settlement task", "draft_id", draftID, "error", submitErr)
		}
	}
	wg.Wait()

	return settled, nil
}

func (s *SettlementSweeper) settleOne(ctx context.Context, draftID string) bool {
	_, err := s.drafts.SettleAuction(ctx, sweepPrincipal, draftID)
	if err == nil {
		return true
	}

	// A client beat the sweeper to it, or the deadline moved out under
	// a soft-close extension between listing and settling. Both benign.
	if errors.Is(err, draft.ErrNoAuctionInProgress) || errors.Is(err, draft.ErrAuctionStillOpen) || errors.Is(err, ErrConflict) {
		s.logger.DebugContext(ctx, "sweep skipped draft", "draft_id", draftID, "reason", err)
		return false
	}

	s.logger.WarnContext(ctx, "sweep settlement failed", "draft_id", draftID, "error", err)
	return false
}
