// Package bot is the Telegram transport: the inbound long-poll loop, the
// command and callback handlers, and the outbound Notifier.
package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"auctioneer/service"
)

const (
	updateTimeoutSeconds = 60

	// handlerTimeout bounds the work done for a single inbound update,
	// including its database calls
	handlerTimeout = 30 * time.Second
)

type Bot struct {
	api     *tgbotapi.BotAPI
	service service.AuctionService
}

// NewAPI authenticates against the Telegram Bot API. The returned client is
// shared by the Bot and the Notifier.
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	return api, nil
}

func New(api *tgbotapi.BotAPI, svc service.AuctionService) *Bot {
	return &Bot{
		api:     api,
		service: svc,
	}
}

// Run consumes updates until the context is cancelled. Each update is handled
// in its own goroutine so a slow database call never blocks the poll loop.
func (b *Bot) Run(ctx context.Context) error {
	log.WithField("username", b.api.Self.UserName).Info("Telegram bot connected")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				go withTimeout(ctx, update.CallbackQuery, b.handleCallback)
				continue
			}
			if update.Message == nil {
				continue
			}
			go withTimeout(ctx, update.Message, b.handleMessage)
		}
	}
}

// withTimeout runs a handler under the per-update deadline
func withTimeout[T any](ctx context.Context, arg T, handle func(context.Context, T)) {
	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()
	handle(ctx, arg)
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("Failed to send message")
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("Failed to send message")
	}
}
