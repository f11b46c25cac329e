package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is an immutable record of one subscriber's amount against one auction.
// Multiple bids per subscriber per auction are retained; there is no
// latest-wins semantics.
type Bid struct {
	ID           int64           `db:"id"`
	AuctionID    int64           `db:"auction_id"`
	SubscriberID int64           `db:"subscriber_id"`
	Amount       decimal.Decimal `db:"amount"`
	PlacedAt     time.Time       `db:"placed_at"`
}

// AuctionParticipant is a bid joined with the bidder's current display name,
// as shown in the admin detail view.
type AuctionParticipant struct {
	SubscriberID int64           `db:"subscriber_id"`
	DisplayName  string          `db:"display_name"`
	Amount       decimal.Decimal `db:"amount"`
	PlacedAt     time.Time       `db:"placed_at"`
}

// ReportRow is one line of the historical export: a bid joined with its
// auction and bidder.
type ReportRow struct {
	AuctionID    int64           `db:"auction_id"`
	Title        string          `db:"title"`
	SubscriberID int64           `db:"subscriber_id"`
	DisplayName  string          `db:"display_name"`
	Amount       decimal.Decimal `db:"amount"`
	PlacedAt     time.Time       `db:"placed_at"`
}

// AuctionDetail is the admin detail view: the auction plus its recorded bids
type AuctionDetail struct {
	Auction      *Auction
	Participants []*AuctionParticipant
}
