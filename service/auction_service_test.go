package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"auctioneer/config"
	"auctioneer/events"
	"auctioneer/models"
	"auctioneer/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminID int64 = 1

type serviceFixture struct {
	service     AuctionService
	subscribers *MockSubscriberRepository
	auctions    *MockAuctionRepository
	bids        *MockBidRepository
	sessions    *session.Tracker
	notifier    *MockNotifier
}

func newServiceFixture() *serviceFixture {
	cfg := &config.Config{
		AdminIDs:         []int64{adminID},
		BroadcastWorkers: 4,
		Environment:      "test",
	}

	f := &serviceFixture{
		subscribers: new(MockSubscriberRepository),
		auctions:    new(MockAuctionRepository),
		bids:        new(MockBidRepository),
		sessions:    session.NewTracker(),
		notifier:    new(MockNotifier),
	}

	f.service = NewAuctionService(
		cfg,
		f.subscribers,
		f.auctions,
		f.bids,
		f.sessions,
		f.notifier,
		events.NewBus(),
	)

	return f
}

func activeAuction(id int64, title string) *models.Auction {
	return &models.Auction{
		ID:        id,
		Title:     title,
		Status:    models.AuctionStatusActive,
		CreatedAt: time.Now(),
	}
}

func TestCreateAndBroadcast(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-admin", func(t *testing.T) {
		f := newServiceFixture()

		_, _, err := f.service.CreateAndBroadcast(ctx, 42, "Vintage Lamp")
		assert.ErrorIs(t, err, ErrNotAuthorized)
		f.auctions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		f := newServiceFixture()

		_, _, err := f.service.CreateAndBroadcast(ctx, adminID, "   ")
		assert.ErrorIs(t, err, ErrEmptyTitle)
		f.auctions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("fan-out counts successes and attempts every recipient", func(t *testing.T) {
		f := newServiceFixture()
		auction := activeAuction(7, "Vintage Lamp")

		subs := []*models.Subscriber{
			{TelegramID: 10}, {TelegramID: 11}, {TelegramID: 12}, {TelegramID: 13}, {TelegramID: 14},
		}

		f.auctions.On("Create", ctx, "Vintage Lamp").Return(auction, nil)
		f.subscribers.On("ListAll", ctx).Return(subs, nil)

		// Two recipients fail; the rest succeed
		f.notifier.On("NotifyAuction", mock.Anything, int64(11), auction).Return(errors.New("blocked"))
		f.notifier.On("NotifyAuction", mock.Anything, int64(13), auction).Return(errors.New("blocked"))
		f.notifier.On("NotifyAuction", mock.Anything, mock.AnythingOfType("int64"), auction).Return(nil)

		created, notified, err := f.service.CreateAndBroadcast(ctx, adminID, "Vintage Lamp")
		require.NoError(t, err)

		assert.Equal(t, auction.ID, created.ID)
		assert.Equal(t, 3, notified)
		f.notifier.AssertNumberOfCalls(t, "NotifyAuction", 5)
	})

	t.Run("subscriber list failure still returns the created auction", func(t *testing.T) {
		f := newServiceFixture()
		auction := activeAuction(8, "Rug")

		f.auctions.On("Create", ctx, "Rug").Return(auction, nil)
		f.subscribers.On("ListAll", ctx).Return(nil, errors.New("connection refused"))

		created, notified, err := f.service.CreateAndBroadcast(ctx, adminID, "Rug")
		require.NoError(t, err)
		assert.Equal(t, auction.ID, created.ID)
		assert.Equal(t, 0, notified)
	})
}

func TestSelectAuction(t *testing.T) {
	ctx := context.Background()

	t.Run("sets the pending pointer", func(t *testing.T) {
		f := newServiceFixture()
		auction := activeAuction(7, "Vintage Lamp")
		f.auctions.On("GetByID", ctx, int64(7)).Return(auction, nil)

		selected, err := f.service.SelectAuction(ctx, 42, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), selected.ID)

		pending, ok := f.sessions.Peek(42)
		assert.True(t, ok)
		assert.Equal(t, int64(7), pending)
	})

	t.Run("unknown auction leaves no pointer", func(t *testing.T) {
		f := newServiceFixture()
		f.auctions.On("GetByID", ctx, int64(99)).Return(nil, ErrAuctionNotFound)

		_, err := f.service.SelectAuction(ctx, 42, 99)
		assert.ErrorIs(t, err, ErrAuctionNotFound)

		_, ok := f.sessions.Peek(42)
		assert.False(t, ok)
	})

	t.Run("new selection overwrites the prior one", func(t *testing.T) {
		f := newServiceFixture()
		f.auctions.On("GetByID", ctx, mock.AnythingOfType("int64")).
			Return(activeAuction(9, "Clock"), nil)

		_, err := f.service.SelectAuction(ctx, 42, 7)
		require.NoError(t, err)
		_, err = f.service.SelectAuction(ctx, 42, 9)
		require.NoError(t, err)

		pending, _ := f.sessions.Peek(42)
		assert.Equal(t, int64(9), pending)
	})
}

func TestSubmitBid(t *testing.T) {
	ctx := context.Background()

	t.Run("no pending selection", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.SubmitBid(ctx, 42, "alice", "100")
		assert.ErrorIs(t, err, ErrNoPendingSelection)
		f.bids.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid amount preserves the pointer", func(t *testing.T) {
		f := newServiceFixture()
		f.sessions.SetPending(42, 7)

		for _, text := range []string{"banana", "", "-5", "0", "12.3.4"} {
			_, err := f.service.SubmitBid(ctx, 42, "alice", text)
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", text)
		}

		pending, ok := f.sessions.Peek(42)
		assert.True(t, ok, "pointer must survive invalid submissions")
		assert.Equal(t, int64(7), pending)
		f.bids.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("valid amount records exactly one bid and clears the pointer", func(t *testing.T) {
		f := newServiceFixture()
		f.sessions.SetPending(42, 7)

		amount := decimal.RequireFromString("150.50")
		bid := &models.Bid{ID: 1, AuctionID: 7, SubscriberID: 42, Amount: amount, PlacedAt: time.Now()}

		f.subscribers.On("Register", ctx, int64(42), "alice").Return(nil)
		f.bids.On("Create", ctx, int64(7), int64(42), amount).Return(bid, nil)
		f.notifier.On("NotifyBidPlaced", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

		recorded, err := f.service.SubmitBid(ctx, 42, "alice", "150.50")
		require.NoError(t, err)
		assert.Equal(t, int64(7), recorded.AuctionID)

		// Pointer consumed: an immediate second submission is rejected
		_, err = f.service.SubmitBid(ctx, 42, "alice", "200")
		assert.ErrorIs(t, err, ErrNoPendingSelection)
		f.bids.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("storage failure restores the pointer", func(t *testing.T) {
		f := newServiceFixture()
		f.sessions.SetPending(42, 7)

		f.subscribers.On("Register", ctx, int64(42), "alice").Return(nil)
		f.bids.On("Create", ctx, int64(7), int64(42), mock.Anything).
			Return(nil, errors.New("connection refused"))

		_, err := f.service.SubmitBid(ctx, 42, "alice", "100")
		require.Error(t, err)

		pending, ok := f.sessions.Peek(42)
		assert.True(t, ok)
		assert.Equal(t, int64(7), pending)
	})

	t.Run("admins are notified after a recorded bid", func(t *testing.T) {
		f := newServiceFixture()
		f.sessions.SetPending(42, 7)

		bid := &models.Bid{ID: 1, AuctionID: 7, SubscriberID: 42, Amount: decimal.New(100, 0)}
		f.subscribers.On("Register", ctx, int64(42), "alice").Return(nil)
		f.bids.On("Create", ctx, int64(7), int64(42), mock.Anything).Return(bid, nil)

		notifiedAdmin := make(chan int64, 1)
		f.notifier.On("NotifyBidPlaced", mock.Anything, adminID, bid).
			Run(func(args mock.Arguments) {
				notifiedAdmin <- args.Get(1).(int64)
			}).
			Return(nil)

		_, err := f.service.SubmitBid(ctx, 42, "alice", "100")
		require.NoError(t, err)

		select {
		case got := <-notifiedAdmin:
			assert.Equal(t, adminID, got)
		case <-time.After(2 * time.Second):
			t.Fatal("admin notification never fired")
		}
	})
}

func TestEndAuction(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-admin", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.EndAuction(ctx, 42, 7)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("propagates not found and not active", func(t *testing.T) {
		f := newServiceFixture()
		f.auctions.On("End", ctx, int64(7)).Return(nil, ErrAuctionNotFound).Once()
		f.auctions.On("End", ctx, int64(7)).Return(nil, ErrAuctionNotActive).Once()

		_, err := f.service.EndAuction(ctx, adminID, 7)
		assert.ErrorIs(t, err, ErrAuctionNotFound)

		_, err = f.service.EndAuction(ctx, adminID, 7)
		assert.ErrorIs(t, err, ErrAuctionNotActive)
	})

	t.Run("ends an active auction", func(t *testing.T) {
		f := newServiceFixture()
		now := time.Now()
		ended := &models.Auction{ID: 7, Title: "Vintage Lamp", Status: models.AuctionStatusEnded, EndedAt: &now}
		f.auctions.On("End", ctx, int64(7)).Return(ended, nil)

		auction, err := f.service.EndAuction(ctx, adminID, 7)
		require.NoError(t, err)
		assert.Equal(t, models.AuctionStatusEnded, auction.Status)
	})
}

func TestGetAuctionDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-admin", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.GetAuctionDetail(ctx, 42, 7)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("composes auction and participants", func(t *testing.T) {
		f := newServiceFixture()
		auction := activeAuction(7, "Vintage Lamp")
		participants := []*models.AuctionParticipant{
			{SubscriberID: 42, DisplayName: "alice", Amount: decimal.RequireFromString("150.50")},
		}

		f.auctions.On("GetByID", ctx, int64(7)).Return(auction, nil)
		f.bids.On("ListForAuction", ctx, int64(7)).Return(participants, nil)

		detail, err := f.service.GetAuctionDetail(ctx, adminID, 7)
		require.NoError(t, err)
		assert.Equal(t, auction, detail.Auction)
		require.Len(t, detail.Participants, 1)
		assert.Equal(t, "alice", detail.Participants[0].DisplayName)
	})
}

func TestGenerateReport(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-admin", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.GenerateReport(ctx, 42, 1)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("rejects non-positive window", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.GenerateReport(ctx, adminID, 0)
		assert.ErrorIs(t, err, ErrInvalidMonths)
		_, err = f.service.GenerateReport(ctx, adminID, -3)
		assert.ErrorIs(t, err, ErrInvalidMonths)
	})

	t.Run("queries the trailing window", func(t *testing.T) {
		f := newServiceFixture()
		rows := []*models.ReportRow{{AuctionID: 7, Title: "Vintage Lamp"}}

		f.bids.On("Report", ctx, mock.MatchedBy(func(since time.Time) bool {
			expected := time.Now().AddDate(0, -2, 0)
			return since.Sub(expected).Abs() < time.Minute
		})).Return(rows, nil)

		report, err := f.service.GenerateReport(ctx, adminID, 2)
		require.NoError(t, err)
		assert.Len(t, report, 1)
	})
}

// The end-to-end flow of an auction's life: create, select, bid, end, inspect.
func TestAuctionLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	auction := activeAuction(7, "Vintage Lamp")
	amount := decimal.RequireFromString("150.50")

	f.auctions.On("Create", ctx, "Vintage Lamp").Return(auction, nil)
	f.subscribers.On("ListAll", ctx).Return([]*models.Subscriber{{TelegramID: 42}}, nil)
	f.notifier.On("NotifyAuction", mock.Anything, int64(42), auction).Return(nil)

	created, notified, err := f.service.CreateAndBroadcast(ctx, adminID, "Vintage Lamp")
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, models.AuctionStatusActive, created.Status)
	assert.Equal(t, 1, notified)

	f.auctions.On("GetByID", ctx, int64(7)).Return(auction, nil).Once()
	_, err = f.service.SelectAuction(ctx, 42, 7)
	require.NoError(t, err)

	bid := &models.Bid{ID: 1, AuctionID: 7, SubscriberID: 42, Amount: amount, PlacedAt: time.Now()}
	f.subscribers.On("Register", ctx, int64(42), "alice").Return(nil)
	f.bids.On("Create", ctx, int64(7), int64(42), amount).Return(bid, nil)
	f.notifier.On("NotifyBidPlaced", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	recorded, err := f.service.SubmitBid(ctx, 42, "alice", "150.50")
	require.NoError(t, err)
	assert.Equal(t, int64(7), recorded.AuctionID)
	assert.Equal(t, int64(42), recorded.SubscriberID)

	now := time.Now()
	endedAuction := &models.Auction{ID: 7, Title: "Vintage Lamp", Status: models.AuctionStatusEnded, EndedAt: &now}
	f.auctions.On("End", ctx, int64(7)).Return(endedAuction, nil)

	ended, err := f.service.EndAuction(ctx, adminID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusEnded, ended.Status)

	f.auctions.On("GetByID", ctx, int64(7)).Return(endedAuction, nil)
	f.bids.On("ListForAuction", ctx, int64(7)).Return([]*models.AuctionParticipant{
		{SubscriberID: 42, DisplayName: "alice", Amount: amount, PlacedAt: bid.PlacedAt},
	}, nil)

	detail, err := f.service.GetAuctionDetail(ctx, adminID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusEnded, detail.Auction.Status)
	require.Len(t, detail.Participants, 1)
	assert.True(t, detail.Participants[0].Amount.Equal(amount))
}
