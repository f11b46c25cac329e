package testutil

import (
	"time"

	"auctioneer/models"

	"github.com/shopspring/decimal"
)

// CreateTestSubscriber creates a test subscriber with default values
func CreateTestSubscriber(telegramID int64, displayName string) *models.Subscriber {
	return &models.Subscriber{
		TelegramID:  telegramID,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}
}

// CreateTestAuction creates an active test auction
func CreateTestAuction(id int64, title string) *models.Auction {
	return &models.Auction{
		ID:        id,
		Title:     title,
		Status:    models.AuctionStatusActive,
		CreatedAt: time.Now(),
	}
}

// CreateTestBid creates a test bid with the given amount string
func CreateTestBid(auctionID, subscriberID int64, amount string) *models.Bid {
	return &models.Bid{
		AuctionID:    auctionID,
		SubscriberID: subscriberID,
		Amount:       decimal.RequireFromString(amount),
		PlacedAt:     time.Now(),
	}
}
