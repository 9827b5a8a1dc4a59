package draft

import (
	"fmt"
	"time"
)

// Status is the draft lifecycle state. Open and paused are reserved in
// the schema but the auction engine only moves pending -> active and
// leaves active -> completed to the commissioner.
type Status string

const (
	StatusPending   Status = "pending"
	StatusOpen      Status = "open"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

var AllStatuses = map[Status]struct{}{
	StatusPending:   {},
	StatusOpen:      {},
	StatusActive:    {},
	StatusPaused:    {},
	StatusCompleted: {},
}

const (
	DefaultNominationTimerSeconds = 30
	DefaultAuctionTimerSeconds    = 60

	// SoftCloseWindow is the anti-snipe window: a bid accepted with less
	// than this much time left pushes the auction end out to now+window,
	// so an auction only closes after a full window with no new bid.
	SoftCloseWindow = 10 * time.Second
)

// Settings holds the countdown defaults shown to clients. The
// authoritative deadline is always Nomination.AuctionEnd.
type Settings struct {
	NominationTimer int
	AuctionTimer    int
}

func (s Settings) Normalize() Settings {
	if s.NominationTimer <= 0 {
		s.NominationTimer = DefaultNominationTimerSeconds
	}
	if s.AuctionTimer <= 0 {
		s.AuctionTimer = DefaultAuctionTimerSeconds
	}

	return s
}

// Slot is one entry in the shuffled nomination order.
type Slot struct {
	UserID string
	TeamID string
}

// Nomination is the player currently up for auction. Nil on the Draft
// means the floor is open for the next nomination.
type Nomination struct {
	PlayerID                string
	NominatedByUserID       string
	NominatedByTeamID       string
	StartingBid             int64
	CurrentBid              int64
	CurrentHighBidderTeamID string
	AuctionStart            time.Time
	AuctionEnd              time.Time
}

// EventType labels a history entry.
type EventType string

const (
	EventNomination EventType = "nomination"
	EventBid        EventType = "bid"
	EventPlayerWon  EventType = "player_won"
	EventUnsold     EventType = "unsold"
)

// HistoryEntry is one append-only audit record. Entries are never
// mutated or reordered.
type HistoryEntry struct {
	Event       EventType
	UserID      string
	TeamID      string
	PlayerID    string
	Amount      int64
	Timestamp   time.Time
	Description string
}

// Draft is the auction aggregate, one-to-one with a league. Version is
// the optimistic concurrency token: every persisted update must name
// the version it read, and the repository rejects stale writes.
type Draft struct {
	ID         string
	LeagueID   string
	Status     Status
	Order      []Slot
	TurnIndex  int
	Nomination *Nomination
	Settings   Settings
	History    []HistoryEntry
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (d Draft) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("draft id is required")
	}
	if d.LeagueID == "" {
		return fmt.Errorf("draft league id is required")
	}
	if _, ok := AllStatuses[d.Status]; !ok {
		return fmt.Errorf("unknown draft status: %s", d.Status)
	}
	if d.Status == StatusActive {
		if len(d.Order) == 0 {
			return fmt.Errorf("active draft requires a nomination order")
		}
		if d.TurnIndex < 0 || d.TurnIndex >= len(d.Order) {
			return fmt.Errorf("turn index %d out of range for order of %d", d.TurnIndex, len(d.Order))
		}
	}

	return nil
}

// CurrentTurn returns the slot whose turn it is to nominate.
func (d Draft) CurrentTurn() (Slot, bool) {
	if d.Status != StatusActive || len(d.Order) == 0 {
		return Slot{}, false
	}
	if d.TurnIndex < 0 || d.TurnIndex >= len(d.Order) {
		return Slot{}, false
	}

	return d.Order[d.TurnIndex], true
}

// AuctionOpen reports whether a nomination is live at the given time.
func (d Draft) AuctionOpen(now time.Time) bool {
	return d.Nomination != nil && now.Before(d.Nomination.AuctionEnd)
}

// InOrder reports whether the user holds a slot in the draft order.
func (d Draft) InOrder(userID string) bool {
	for _, slot := range d.Order {
		if slot.UserID == userID {
			return true
		}
	}

	return false
}

// Clone returns a deep copy so callers can mutate transition results
// without aliasing repository state.
func (d Draft) Clone() Draft {
	copied := d
	copied.Order = append([]Slot(nil), d.Order...)
	copied.History = append([]HistoryEntry(nil), d.History...)
	if d.Nomination != nil {
		nom := *d.Nomination
		copied.Nomination = &nom
	}

	return copied
}
