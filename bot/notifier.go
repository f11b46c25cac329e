package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"auctioneer/models"
)

// callbackBidPrefix is the callback-data prefix carried by the bid button on
// every auction announcement.
const callbackBidPrefix = "bid_"

// Notifier delivers outbound messages over Telegram. It is a separate type
// from Bot so the coordinator can be constructed with it before the inbound
// update loop exists.
type Notifier struct {
	api *tgbotapi.BotAPI
}

func NewNotifier(api *tgbotapi.BotAPI) *Notifier {
	return &Notifier{api: api}
}

// NotifyAuction sends the new-auction announcement with its bid button to one
// subscriber.
func (n *Notifier) NotifyAuction(_ context.Context, telegramID int64, auction *models.Auction) error {
	msg := tgbotapi.NewMessage(telegramID, announcementText(auction))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = auctionKeyboard(auction.ID)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send auction announcement to %d: %w", telegramID, err)
	}
	return nil
}

// NotifyBidPlaced informs one administrator that a bid was recorded.
func (n *Notifier) NotifyBidPlaced(_ context.Context, telegramID int64, bid *models.Bid) error {
	msg := tgbotapi.NewMessage(telegramID, adminBidAlertText(bid))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send bid alert to %d: %w", telegramID, err)
	}
	return nil
}

func auctionKeyboard(auctionID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("💰 Place Bid on #%d", auctionID),
				fmt.Sprintf("%s%d", callbackBidPrefix, auctionID),
			),
		),
	)
}
