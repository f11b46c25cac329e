package service

import (
	"context"
	"time"

	"auctioneer/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockSubscriberRepository is a mock implementation of SubscriberRepository
type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) Register(ctx context.Context, telegramID int64, displayName string) error {
	args := m.Called(ctx, telegramID, displayName)
	return args.Error(0)
}

func (m *MockSubscriberRepository) ListAll(ctx context.Context) ([]*models.Subscriber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscriber), args.Error(1)
}

// MockAuctionRepository is a mock implementation of AuctionRepository
type MockAuctionRepository struct {
	mock.Mock
}

func (m *MockAuctionRepository) Create(ctx context.Context, title string) (*models.Auction, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Auction), args.Error(1)
}

func (m *MockAuctionRepository) ListActive(ctx context.Context) ([]*models.Auction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Auction), args.Error(1)
}

func (m *MockAuctionRepository) GetByID(ctx context.Context, id int64) (*models.Auction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Auction), args.Error(1)
}

func (m *MockAuctionRepository) End(ctx context.Context, id int64) (*models.Auction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Auction), args.Error(1)
}

// MockBidRepository is a mock implementation of BidRepository
type MockBidRepository struct {
	mock.Mock
}

func (m *MockBidRepository) Create(ctx context.Context, auctionID, subscriberID int64, amount decimal.Decimal) (*models.Bid, error) {
	args := m.Called(ctx, auctionID, subscriberID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bid), args.Error(1)
}

func (m *MockBidRepository) ListForAuction(ctx context.Context, auctionID int64) ([]*models.AuctionParticipant, error) {
	args := m.Called(ctx, auctionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuctionParticipant), args.Error(1)
}

func (m *MockBidRepository) Report(ctx context.Context, since time.Time) ([]*models.ReportRow, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReportRow), args.Error(1)
}

// MockNotifier is a mock implementation of the Notifier boundary
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAuction(ctx context.Context, telegramID int64, auction *models.Auction) error {
	args := m.Called(ctx, telegramID, auction)
	return args.Error(0)
}

func (m *MockNotifier) NotifyBidPlaced(ctx context.Context, telegramID int64, bid *models.Bid) error {
	args := m.Called(ctx, telegramID, bid)
	return args.Error(0)
}
