// Package session tracks which auction a subscriber's next message bids on.
// The state is process-local: it is never persisted and carries no timeout.
package session

import (
	"sync"
)

// Tracker maps a subscriber to the auction they are currently bidding on.
// Safe for concurrent use by handlers for different subscribers and by
// duplicate deliveries for the same subscriber.
type Tracker struct {
	mu      sync.Mutex
	pending map[int64]int64
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		pending: make(map[int64]int64),
	}
}

// SetPending records the subscriber's selection, overwriting any prior one
func (t *Tracker) SetPending(subscriberID, auctionID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[subscriberID] = auctionID
}

// TakePending atomically reads and clears the subscriber's selection. Under
// duplicate delivery at most one caller observes the auction id; the others
// see ok == false.
func (t *Tracker) TakePending(subscriberID int64) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	auctionID, ok := t.pending[subscriberID]
	if ok {
		delete(t.pending, subscriberID)
	}
	return auctionID, ok
}

// Peek returns the subscriber's selection without clearing it
func (t *Tracker) Peek(subscriberID int64) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	auctionID, ok := t.pending[subscriberID]
	return auctionID, ok
}
