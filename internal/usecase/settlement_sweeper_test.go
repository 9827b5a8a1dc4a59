package usecase

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestSettlementSweeper_SweepOnce(t *testing.T) {
	f := newDraftFixture(t, 200)
	started := f.startedDraft(t)
	nominator := principalFor(t, started.Order[0].UserID)

	if _, err := f.service.NominatePlayer(t.Context(), nominator, started.ID, "nfl-qb-01", 12); err != nil {
		t.Fatalf("nominate failed: %v", err)
	}

	sweeper, err := NewSettlementSweeper(f.service, f.draftRepo, time.Second, 2, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new sweeper: %v", err)
	}

	// The auction is still live on the service clock: the listing may
	// offer the draft, but settlement refuses and the sweep skips it.
	settled, err := sweeper.SweepOnce(t.Context())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if settled != 0 {
		t.Fatalf("expected nothing settled while the auction is live, got %d", settled)
	}

	f.advance(90 * time.Second)

	settled, err = sweeper.SweepOnce(t.Context())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if settled != 1 {
		t.Fatalf("expected one settlement, got %d", settled)
	}

	d, _, err := f.draftRepo.GetByID(t.Context(), started.ID)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if d.Nomination != nil {
		t.Fatal("expected nomination cleared by the sweeper")
	}
	if d.TurnIndex != 1 {
		t.Fatalf("expected turn advanced, got index %d", d.TurnIndex)
	}

	// A second pass finds nothing due.
	settled, err = sweeper.SweepOnce(t.Context())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if settled != 0 {
		t.Fatalf("expected idle sweep, got %d settlements", settled)
	}
}
