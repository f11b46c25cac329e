package service

import (
	"context"
	"time"

	"auctioneer/models"

	"github.com/shopspring/decimal"
)

// SubscriberRepository defines the interface for subscriber registry access
type SubscriberRepository interface {
	// Register inserts the subscriber if absent and refreshes the display
	// name if present. Idempotent.
	Register(ctx context.Context, telegramID int64, displayName string) error

	// ListAll returns every registered subscriber
	ListAll(ctx context.Context) ([]*models.Subscriber, error)
}

// AuctionRepository defines the interface for auction store access
type AuctionRepository interface {
	// Create creates a new active auction and assigns its identifier
	Create(ctx context.Context, title string) (*models.Auction, error)

	// ListActive returns active auctions, newest first
	ListActive(ctx context.Context) ([]*models.Auction, error)

	// GetByID retrieves an auction; returns ErrAuctionNotFound if absent
	GetByID(ctx context.Context, id int64) (*models.Auction, error)

	// End transitions an active auction to ended. Returns ErrAuctionNotFound
	// if the auction does not exist and ErrAuctionNotActive if it was
	// already ended.
	End(ctx context.Context, id int64) (*models.Auction, error)
}

// BidRepository defines the interface for the participation ledger
type BidRepository interface {
	// Create records a bid. The auction and subscriber must exist; the
	// auction's status is deliberately not checked.
	Create(ctx context.Context, auctionID, subscriberID int64, amount decimal.Decimal) (*models.Bid, error)

	// ListForAuction returns bids for an auction joined with display names,
	// most recent first
	ListForAuction(ctx context.Context, auctionID int64) ([]*models.AuctionParticipant, error)

	// Report returns all bids whose parent auction was created at or after
	// the given time, ordered by auction id then placement time
	Report(ctx context.Context, since time.Time) ([]*models.ReportRow, error)
}

// SessionTracker defines the interface for the pending-bid pointer state
type SessionTracker interface {
	// SetPending records which auction the subscriber's next message bids
	// on, overwriting any prior selection
	SetPending(subscriberID, auctionID int64)

	// TakePending atomically reads and clears the pending selection
	TakePending(subscriberID int64) (auctionID int64, ok bool)

	// Peek returns the pending selection without clearing it
	Peek(subscriberID int64) (auctionID int64, ok bool)
}

// Notifier is the outbound chat-transport boundary. Implementations may fail
// per recipient; callers treat each send independently.
type Notifier interface {
	// NotifyAuction delivers the new-auction announcement, with the
	// bid-selection choice attached, to one subscriber
	NotifyAuction(ctx context.Context, telegramID int64, auction *models.Auction) error

	// NotifyBidPlaced informs one administrator that a bid was recorded
	NotifyBidPlaced(ctx context.Context, telegramID int64, bid *models.Bid) error
}

// AuctionService defines the coordinator contract
type AuctionService interface {
	// RegisterSubscriber registers the caller for auction broadcasts
	RegisterSubscriber(ctx context.Context, telegramID int64, displayName string) error

	// CreateAndBroadcast creates an auction and fans the announcement out to
	// every subscriber, returning the auction and the number successfully
	// notified. Admin-only.
	CreateAndBroadcast(ctx context.Context, actorID int64, title string) (*models.Auction, int, error)

	// SelectAuction marks which auction the subscriber's next message bids on
	SelectAuction(ctx context.Context, subscriberID, auctionID int64) (*models.Auction, error)

	// SubmitBid interprets free text as a bid amount against the
	// subscriber's pending selection
	SubmitBid(ctx context.Context, subscriberID int64, displayName, text string) (*models.Bid, error)

	// EndAuction transitions an auction to ended. Admin-only.
	EndAuction(ctx context.Context, actorID, auctionID int64) (*models.Auction, error)

	// ListActiveAuctions returns active auctions, newest first. Admin-only.
	ListActiveAuctions(ctx context.Context, actorID int64) ([]*models.Auction, error)

	// GetAuctionDetail returns an auction with its recorded bids. Admin-only.
	GetAuctionDetail(ctx context.Context, actorID, auctionID int64) (*models.AuctionDetail, error)

	// GenerateReport returns bids from auctions created within the trailing
	// number of months. Admin-only.
	GenerateReport(ctx context.Context, actorID int64, monthsBack int) ([]*models.ReportRow, error)
}
