package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"auctioneer/config"
	"auctioneer/events"
	"auctioneer/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// auctionService implements the AuctionService interface
type auctionService struct {
	cfg         *config.Config
	subscribers SubscriberRepository
	auctions    AuctionRepository
	bids        BidRepository
	sessions    SessionTracker
	notifier    Notifier
	eventBus    *events.Bus
}

// NewAuctionService creates the auction coordinator. It subscribes its own
// admin-notification handler to bid events so that notifying administrators
// runs off the bidder's request path.
func NewAuctionService(
	cfg *config.Config,
	subscribers SubscriberRepository,
	auctions AuctionRepository,
	bids BidRepository,
	sessions SessionTracker,
	notifier Notifier,
	eventBus *events.Bus,
) AuctionService {
	s := &auctionService{
		cfg:         cfg,
		subscribers: subscribers,
		auctions:    auctions,
		bids:        bids,
		sessions:    sessions,
		notifier:    notifier,
		eventBus:    eventBus,
	}

	eventBus.Subscribe(events.EventTypeBidPlaced, s.notifyAdminsOfBid)

	return s
}

// RegisterSubscriber registers the caller for auction broadcasts. Repeat
// registrations refresh the display name and nothing else.
func (s *auctionService) RegisterSubscriber(ctx context.Context, telegramID int64, displayName string) error {
	if err := s.subscribers.Register(ctx, telegramID, displayName); err != nil {
		return fmt.Errorf("failed to register subscriber: %w", err)
	}
	return nil
}

// CreateAndBroadcast creates an auction and announces it to every
// subscriber. Each delivery is independent: per-recipient failures are
// counted and logged, never propagated. Notifications are not transactional
// with auction creation; a shutdown mid-broadcast leaves the auction created
// and some subscribers unnotified.
func (s *auctionService) CreateAndBroadcast(ctx context.Context, actorID int64, title string) (*models.Auction, int, error) {
	if !s.cfg.IsAdmin(actorID) {
		return nil, 0, ErrNotAuthorized
	}
	if strings.TrimSpace(title) == "" {
		return nil, 0, ErrEmptyTitle
	}

	auction, err := s.auctions.Create(ctx, strings.TrimSpace(title))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create auction: %w", err)
	}

	subs, err := s.subscribers.ListAll(ctx)
	if err != nil {
		// The auction exists; report it with a zero count rather than
		// pretending creation failed
		log.WithField("auctionID", auction.ID).Errorf("Failed to list subscribers for broadcast: %v", err)
		return auction, 0, nil
	}

	notified := s.broadcast(ctx, auction, subs)

	log.WithFields(log.Fields{
		"auctionID":  auction.ID,
		"recipients": len(subs),
		"notified":   notified,
	}).Info("Auction broadcast complete")

	s.eventBus.Emit(ctx, events.AuctionCreatedEvent{
		Auction:       auction,
		CreatedBy:     actorID,
		NotifiedCount: notified,
	})

	return auction, notified, nil
}

// broadcast fans the announcement out on a fixed number of workers so a
// large subscriber list cannot stampede the transport. Returns the number
// of successful deliveries.
func (s *auctionService) broadcast(ctx context.Context, auction *models.Auction, subs []*models.Subscriber) int {
	workers := s.cfg.BroadcastWorkers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int64)
	var notified int64
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for telegramID := range jobs {
				if err := s.notifier.NotifyAuction(ctx, telegramID, auction); err != nil {
					log.WithFields(log.Fields{
						"auctionID":  auction.ID,
						"telegramID": telegramID,
					}).Warnf("Failed to deliver auction announcement: %v", err)
					continue
				}
				atomic.AddInt64(&notified, 1)
			}
		}()
	}

	for _, sub := range subs {
		jobs <- sub.TelegramID
	}
	close(jobs)
	wg.Wait()

	return int(notified)
}

// SelectAuction marks which auction the subscriber's next message bids on.
// The selection unconditionally overwrites any prior one.
func (s *auctionService) SelectAuction(ctx context.Context, subscriberID, auctionID int64) (*models.Auction, error) {
	auction, err := s.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	s.sessions.SetPending(subscriberID, auctionID)
	return auction, nil
}

// SubmitBid interprets free text as a bid amount against the subscriber's
// pending selection. An invalid amount leaves the selection in place so a
// corrected message still lands on the originally selected auction.
func (s *auctionService) SubmitBid(ctx context.Context, subscriberID int64, displayName, text string) (*models.Bid, error) {
	if _, ok := s.sessions.Peek(subscriberID); !ok {
		return nil, ErrNoPendingSelection
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	// Consume the pointer atomically: with duplicate deliveries of the same
	// message, only the taker that wins records a bid
	auctionID, ok := s.sessions.TakePending(subscriberID)
	if !ok {
		return nil, ErrNoPendingSelection
	}

	// The bidder may never have sent /start; make sure the ledger's
	// subscriber reference exists
	if err := s.subscribers.Register(ctx, subscriberID, displayName); err != nil {
		s.sessions.SetPending(subscriberID, auctionID)
		return nil, fmt.Errorf("failed to register bidder: %w", err)
	}

	bid, err := s.bids.Create(ctx, auctionID, subscriberID, amount)
	if err != nil {
		// A storage failure should not cost the user their selection
		s.sessions.SetPending(subscriberID, auctionID)
		return nil, err
	}

	s.eventBus.Emit(ctx, events.BidPlacedEvent{
		Bid:         bid,
		DisplayName: displayName,
	})

	return bid, nil
}

// EndAuction transitions an auction to ended. Ending an already-ended
// auction reports ErrAuctionNotActive and changes nothing.
func (s *auctionService) EndAuction(ctx context.Context, actorID, auctionID int64) (*models.Auction, error) {
	if !s.cfg.IsAdmin(actorID) {
		return nil, ErrNotAuthorized
	}

	auction, err := s.auctions.End(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	s.eventBus.Emit(ctx, events.AuctionEndedEvent{
		Auction: auction,
		EndedBy: actorID,
	})

	return auction, nil
}

// ListActiveAuctions returns active auctions, newest first
func (s *auctionService) ListActiveAuctions(ctx context.Context, actorID int64) ([]*models.Auction, error) {
	if !s.cfg.IsAdmin(actorID) {
		return nil, ErrNotAuthorized
	}
	return s.auctions.ListActive(ctx)
}

// GetAuctionDetail returns an auction together with its recorded bids
func (s *auctionService) GetAuctionDetail(ctx context.Context, actorID, auctionID int64) (*models.AuctionDetail, error) {
	if !s.cfg.IsAdmin(actorID) {
		return nil, ErrNotAuthorized
	}

	auction, err := s.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	participants, err := s.bids.ListForAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	return &models.AuctionDetail{
		Auction:      auction,
		Participants: participants,
	}, nil
}

// GenerateReport returns bids from auctions created within the trailing
// number of months
func (s *auctionService) GenerateReport(ctx context.Context, actorID int64, monthsBack int) ([]*models.ReportRow, error) {
	if !s.cfg.IsAdmin(actorID) {
		return nil, ErrNotAuthorized
	}
	if monthsBack < 1 {
		return nil, ErrInvalidMonths
	}

	since := time.Now().AddDate(0, -monthsBack, 0)
	return s.bids.Report(ctx, since)
}

// notifyAdminsOfBid delivers the new-bid notice to every administrator.
// Failures are logged and swallowed; the bidder already got their reply.
func (s *auctionService) notifyAdminsOfBid(ctx context.Context, event events.Event) {
	placed, ok := event.(events.BidPlacedEvent)
	if !ok {
		return
	}

	for _, adminID := range s.cfg.AdminIDs {
		if err := s.notifier.NotifyBidPlaced(ctx, adminID, placed.Bid); err != nil {
			log.WithFields(log.Fields{
				"adminID": adminID,
				"bidID":   placed.Bid.ID,
			}).Warnf("Failed to notify admin of bid: %v", err)
		}
	}
}
