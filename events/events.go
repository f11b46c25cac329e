package events

import (
	"context"
	"sync"

	"auctioneer/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeAuctionCreated EventType = "auction_created"
	EventTypeBidPlaced      EventType = "bid_placed"
	EventTypeAuctionEnded   EventType = "auction_ended"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// AuctionCreatedEvent fires after an auction is durably created, before the
// broadcast fan-out completes
type AuctionCreatedEvent struct {
	Auction       *models.Auction
	CreatedBy     int64
	NotifiedCount int
}

func (e AuctionCreatedEvent) Type() EventType {
	return EventTypeAuctionCreated
}

// BidPlacedEvent fires after a bid is recorded. The admin notification
// fan-out runs off this event so failures never reach the bidder.
type BidPlacedEvent struct {
	Bid         *models.Bid
	DisplayName string
}

func (e BidPlacedEvent) Type() EventType {
	return EventTypeBidPlaced
}

// AuctionEndedEvent fires when an administrator ends an auction
type AuctionEndedEvent struct {
	Auction *models.Auction
	EndedBy int64
}

func (e AuctionEndedEvent) Type() EventType {
	return EventTypeAuctionEnded
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously so a slow or panicking handler cannot block the emitter.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}
