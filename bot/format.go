package bot

import (
	"fmt"
	"strings"

	"auctioneer/models"
)

const messageTimeLayout = "2006-01-02 15:04"

func welcomeText() string {
	return "👋 Welcome! You'll receive auction updates when admin broadcasts."
}

func helpText() string {
	return strings.Join([]string{
		"Commands:",
		"/start - subscribe to auction announcements",
		"/broadcast <title> - create an auction and announce it (admin)",
		"/list - list active auctions (admin)",
		"/bid <auction_id> - show an auction with its bids (admin)",
		"/end <auction_id> - end an auction (admin)",
		"/report <months> - export bids as an xlsx file (admin)",
	}, "\n")
}

// announcementText is the message every subscriber receives when an auction
// is created.
func announcementText(auction *models.Auction) string {
	return fmt.Sprintf(
		"📢 *New Auction!*\n\n🆔 *Auction #%d*\n📦 %s\n🕒 Created: %s\n\nClick below to bid 👇",
		auction.ID,
		auction.Title,
		auction.CreatedAt.Format(messageTimeLayout),
	)
}

func broadcastSummaryText(auction *models.Auction, notified int) string {
	return fmt.Sprintf("✅ Broadcast sent to %d users.\nAuction ID: %d", notified, auction.ID)
}

func selectionPromptText(auction *models.Auction) string {
	return fmt.Sprintf("You selected *Auction #%d*.\nPlease enter your bid amount:", auction.ID)
}

func bidRecordedText(bid *models.Bid) string {
	return fmt.Sprintf("✅ Your bid of %s has been recorded for Auction #%d.", bid.Amount.String(), bid.AuctionID)
}

// adminBidAlertText is sent to each administrator after a bid is recorded.
func adminBidAlertText(bid *models.Bid) string {
	return fmt.Sprintf(
		"📥 *New Bid Received*\n\n🆔 Auction #%d\n👤 User ID: %d\n💰 Amount: %s",
		bid.AuctionID,
		bid.SubscriberID,
		bid.Amount.String(),
	)
}

func activeListText(auctions []*models.Auction) string {
	if len(auctions) == 0 {
		return "No active auctions yet."
	}

	var sb strings.Builder
	sb.WriteString("📜 *All Active Auctions:*\n\n")
	for _, a := range auctions {
		fmt.Fprintf(&sb, "🆔 #%d — %s (%s)\n", a.ID, a.Title, a.Status)
	}
	return sb.String()
}

func detailText(detail *models.AuctionDetail) string {
	a := detail.Auction

	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 *Auction #%d*\n🏷 Title: %s\n🕒 Created: %s\n📊 Status: %s\n",
		a.ID, a.Title, a.CreatedAt.Format(messageTimeLayout), a.Status)
	if a.EndedAt != nil {
		fmt.Fprintf(&sb, "🛑 Ended: %s\n", a.EndedAt.Format(messageTimeLayout))
	}
	sb.WriteString("\n")

	if len(detail.Participants) == 0 {
		sb.WriteString("_No participants yet._")
		return sb.String()
	}

	for _, p := range detail.Participants {
		fmt.Fprintf(&sb, "👤 %s — 💰 %s (⏰ %s)\n", p.DisplayName, p.Amount.String(), p.PlacedAt.Format(messageTimeLayout))
	}
	return sb.String()
}

func endedText(auction *models.Auction) string {
	return fmt.Sprintf("✅ Auction #%d has been ended.", auction.ID)
}

func reportCaption(monthsBack int) string {
	return fmt.Sprintf("📊 Auction Report (Last %d Month)", monthsBack)
}
