package models

import (
	"time"
)

// AuctionStatus represents the lifecycle state of an auction
type AuctionStatus string

const (
	AuctionStatusActive AuctionStatus = "active"
	AuctionStatusEnded  AuctionStatus = "ended"
)

// Auction represents a titled solicitation of bids broadcast to subscribers.
// The active -> ended transition is one-way; EndedAt is set only on that
// transition.
type Auction struct {
	ID        int64         `db:"id"`
	Title     string        `db:"title"`
	Status    AuctionStatus `db:"status"`
	CreatedAt time.Time     `db:"created_at"`
	EndedAt   *time.Time    `db:"ended_at"`
}

// IsActive returns whether the auction still accepts the admin end action
func (a *Auction) IsActive() bool {
	return a.Status == AuctionStatusActive
}
