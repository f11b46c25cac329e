package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"auctioneer/report"
	"auctioneer/service"
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Text != "" {
		b.handleBidAmount(ctx, message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "broadcast":
		b.handleBroadcast(ctx, message)
	case "list":
		b.handleList(ctx, message)
	case "bid":
		b.handleDetail(ctx, message)
	case "end":
		b.handleEnd(ctx, message)
	case "report":
		b.handleReport(ctx, message)
	case "help":
		b.sendText(message.Chat.ID, helpText())
	default:
		b.sendText(message.Chat.ID, "Unknown command. Use /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	if err := b.service.RegisterSubscriber(ctx, userID, displayName(message.From)); err != nil {
		log.WithError(err).WithField("telegram_id", userID).Error("Failed to register subscriber")
		b.sendText(message.Chat.ID, "❌ Something went wrong. Please try /start again.")
		return
	}
	b.sendText(message.Chat.ID, welcomeText())
}

func (b *Bot) handleBroadcast(ctx context.Context, message *tgbotapi.Message) {
	title := strings.TrimSpace(message.CommandArguments())

	auction, notified, err := b.service.CreateAndBroadcast(ctx, message.From.ID, title)
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		b.sendText(message.Chat.ID, "⛔ You are not authorized.")
		return
	case errors.Is(err, service.ErrEmptyTitle):
		b.sendText(message.Chat.ID, "Usage: /broadcast <auction title>")
		return
	case err != nil:
		log.WithError(err).Error("Failed to create auction")
		b.sendText(message.Chat.ID, "❌ Failed to create the auction. Please try again.")
		return
	}

	b.sendText(message.Chat.ID, broadcastSummaryText(auction, notified))
}

func (b *Bot) handleList(ctx context.Context, message *tgbotapi.Message) {
	auctions, err := b.service.ListActiveAuctions(ctx, message.From.ID)
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		b.sendText(message.Chat.ID, "⛔ Not authorized.")
		return
	case err != nil:
		log.WithError(err).Error("Failed to list active auctions")
		b.sendText(message.Chat.ID, "❌ Failed to load the auction list.")
		return
	}

	b.sendMarkdown(message.Chat.ID, activeListText(auctions))
}

func (b *Bot) handleDetail(ctx context.Context, message *tgbotapi.Message) {
	auctionID, ok := parseIDArgument(message.CommandArguments())
	if !ok {
		b.sendText(message.Chat.ID, "Usage: /bid <auction_id>")
		return
	}

	detail, err := b.service.GetAuctionDetail(ctx, message.From.ID, auctionID)
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		b.sendText(message.Chat.ID, "⛔ Not authorized.")
		return
	case errors.Is(err, service.ErrAuctionNotFound):
		b.sendText(message.Chat.ID, "❌ Auction not found.")
		return
	case err != nil:
		log.WithError(err).WithField("auction_id", auctionID).Error("Failed to load auction detail")
		b.sendText(message.Chat.ID, "❌ Failed to load the auction.")
		return
	}

	b.sendMarkdown(message.Chat.ID, detailText(detail))
}

func (b *Bot) handleEnd(ctx context.Context, message *tgbotapi.Message) {
	auctionID, ok := parseIDArgument(message.CommandArguments())
	if !ok {
		b.sendText(message.Chat.ID, "Usage: /end <auction_id>")
		return
	}

	auction, err := b.service.EndAuction(ctx, message.From.ID, auctionID)
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		b.sendText(message.Chat.ID, "⛔ Not authorized.")
		return
	case errors.Is(err, service.ErrAuctionNotFound):
		b.sendText(message.Chat.ID, "❌ Auction not found.")
		return
	case errors.Is(err, service.ErrAuctionNotActive):
		b.sendText(message.Chat.ID, "❌ This auction has already been ended.")
		return
	case err != nil:
		log.WithError(err).WithField("auction_id", auctionID).Error("Failed to end auction")
		b.sendText(message.Chat.ID, "❌ Failed to end the auction.")
		return
	}

	b.sendText(message.Chat.ID, endedText(auction))
}

func (b *Bot) handleReport(ctx context.Context, message *tgbotapi.Message) {
	months, ok := parseIDArgument(message.CommandArguments())
	if !ok {
		b.sendText(message.Chat.ID, "Usage: /report <months>")
		return
	}

	rows, err := b.service.GenerateReport(ctx, message.From.ID, int(months))
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		b.sendText(message.Chat.ID, "⛔ Not authorized.")
		return
	case errors.Is(err, service.ErrInvalidMonths):
		b.sendText(message.Chat.ID, "Usage: /report <months>")
		return
	case err != nil:
		log.WithError(err).Error("Failed to query report data")
		b.sendText(message.Chat.ID, "❌ Failed to build the report.")
		return
	}

	if len(rows) == 0 {
		b.sendText(message.Chat.ID, "No data found for this period.")
		return
	}

	buf, err := report.Build(rows)
	if err != nil {
		log.WithError(err).Error("Failed to render report workbook")
		b.sendText(message.Chat.ID, "❌ Failed to build the report.")
		return
	}

	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
		Name:  report.Filename(int(months)),
		Bytes: buf.Bytes(),
	})
	doc.Caption = reportCaption(int(months))
	if _, err := b.api.Send(doc); err != nil {
		log.WithError(err).Error("Failed to upload report")
		b.sendText(message.Chat.ID, "❌ Failed to upload the report.")
	}
}

// handleBidAmount interprets a plain text message as a bid amount against the
// sender's pending auction selection.
func (b *Bot) handleBidAmount(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	bid, err := b.service.SubmitBid(ctx, userID, displayName(message.From), message.Text)
	switch {
	case errors.Is(err, service.ErrNoPendingSelection):
		b.sendText(message.Chat.ID, "Please select an auction first using the 💰 button.")
		return
	case errors.Is(err, service.ErrInvalidAmount):
		b.sendText(message.Chat.ID, "❌ Invalid amount. Enter a numeric value.")
		return
	case errors.Is(err, service.ErrAuctionNotFound):
		b.sendText(message.Chat.ID, "❌ That auction no longer exists.")
		return
	case err != nil:
		log.WithError(err).WithField("telegram_id", userID).Error("Failed to record bid")
		b.sendText(message.Chat.ID, "❌ Failed to record your bid. Please try again.")
		return
	}

	b.sendText(message.Chat.ID, bidRecordedText(bid))
}

// handleCallback routes inline-button presses. The only button the bot emits
// is the bid button on an auction announcement.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	// Stop the client-side spinner regardless of the outcome
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.WithError(err).Warn("Failed to answer callback query")
	}

	if cq.Message == nil || !strings.HasPrefix(cq.Data, callbackBidPrefix) {
		return
	}
	chatID := cq.Message.Chat.ID

	auctionID, err := strconv.ParseInt(strings.TrimPrefix(cq.Data, callbackBidPrefix), 10, 64)
	if err != nil {
		log.WithField("data", cq.Data).Warn("Malformed bid callback")
		return
	}

	auction, err := b.service.SelectAuction(ctx, cq.From.ID, auctionID)
	switch {
	case errors.Is(err, service.ErrAuctionNotFound):
		b.sendText(chatID, "❌ Auction not found.")
		return
	case err != nil:
		log.WithError(err).WithField("auction_id", auctionID).Error("Failed to select auction")
		b.sendText(chatID, "❌ Something went wrong. Please press the button again.")
		return
	}

	b.sendMarkdown(chatID, selectionPromptText(auction))
}

func parseIDArgument(args string) (int64, bool) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// displayName prefers the Telegram username and falls back to the profile name
func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
