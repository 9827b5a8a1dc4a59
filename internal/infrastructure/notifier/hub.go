// Package notifier fans draft snapshots out to draft-room subscribers.
package notifier

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sourcegraph/conc"

	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
)

// subscriberBuffer bounds how far a slow reader may fall behind before
// it starts losing snapshots. Every snapshot carries the full state, so
// a dropped frame is recovered by the next one.
const subscriberBuffer = 8

type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[chan []byte]struct{}
	closed bool
	wg     conc.WaitGroup
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		rooms:  make(map[string]map[chan []byte]struct{}),
		logger: logger,
	}
}

// Subscribe registers a listener for one draft's snapshots. The second
// return value unsubscribes; it is safe to call more than once.
func (h *Hub) Subscribe(draftID string) (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	room, ok := h.rooms[draftID]
	if !ok {
		room = make(map[chan []byte]struct{})
		h.rooms[draftID] = room
	}
	room[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		room, ok := h.rooms[draftID]
		if !ok {
			return
		}
		if _, member := room[ch]; !member {
			return
		}
		delete(room, ch)
		if len(room) == 0 {
			delete(h.rooms, draftID)
		}
		close(ch)
	}

	return ch, cancel
}

// PublishDraft broadcasts a snapshot to the draft's room. It returns
// immediately; encoding and fan-out happen off the caller's goroutine
// so a slow subscriber can never delay a committed transition.
func (h *Hub) PublishDraft(d draft.Draft) {
	h.mu.RLock()
	if h.closed || len(h.rooms[d.ID]) == 0 {
		h.mu.RUnlock()
		return
	}
	h.mu.RUnlock()

	h.wg.Go(func() {
		payload, err := encodeSnapshot(d)
		if err != nil {
			h.logger.Warn("encode draft snapshot", "draft_id", d.ID, "error", err)
			return
		}

		h.mu.RLock()
		defer h.mu.RUnlock()
		for ch := range h.rooms[d.ID] {
			select {
			case ch <- payload:
			default:
				// Buffer full: drop this frame for the laggard.
			}
		}
	})
}

// Close waits for in-flight broadcasts and closes every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	h.wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	for draftID, room := range h.rooms {
		for ch := range room {
			close(ch)
		}
		delete(h.rooms, draftID)
	}
}

type snapshotJSON struct {
	DraftID    string          `json:"draftId"`
	LeagueID   string          `json:"leagueId"`
	Status     string          `json:"status"`
	TurnIndex  int             `json:"turnIndex"`
	TurnUserID string          `json:"turnUserId,omitempty"`
	Nomination *nominationJSON `json:"nomination,omitempty"`
	Version    int64           `json:"version"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type nominationJSON struct {
	PlayerID                string    `json:"playerId"`
	CurrentBid              int64     `json:"currentBid"`
	CurrentHighBidderTeamID string    `json:"currentHighBidderTeamId"`
	AuctionEnd              time.Time `json:"auctionEnd"`
}

func encodeSnapshot(d draft.Draft) ([]byte, error) {
	snapshot := snapshotJSON{
		DraftID:   d.ID,
		LeagueID:  d.LeagueID,
		Status:    string(d.Status),
		TurnIndex: d.TurnIndex,
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
	}
	if turn, ok := d.CurrentTurn(); ok {
		snapshot.TurnUserID = turn.UserID
	}
	if d.Nomination != nil {
		snapshot.Nomination = &nominationJSON{
			PlayerID:                d.Nomination.PlayerID,
			CurrentBid:              d.Nomination.CurrentBid,
			CurrentHighBidderTeamID: d.Nomination.CurrentHighBidderTeamID,
			AuctionEnd:              d.Nomination.AuctionEnd,
		}
	}

	return sonic.Marshal(snapshot)
}
