package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auctioneer/database"
	"auctioneer/models"
	"auctioneer/service"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Postgres foreign key violation
const pgErrForeignKeyViolation = "23503"

// BidRepository implements the service.BidRepository interface
type BidRepository struct {
	q queryable
}

// NewBidRepository creates a new bid repository
func NewBidRepository(db *database.DB) *BidRepository {
	return &BidRepository{q: db.Pool}
}

// Create records a bid against an auction. Referential integrity is enforced
// by the schema's foreign keys; violations map to the not-found sentinels.
// The auction's status is intentionally not checked: a pending selection
// taken before the auction ended is still honored.
func (r *BidRepository) Create(ctx context.Context, auctionID, subscriberID int64, amount decimal.Decimal) (*models.Bid, error) {
	query := `
		INSERT INTO bids (auction_id, subscriber_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, auction_id, subscriber_id, amount, placed_at
	`

	var bid models.Bid
	err := r.q.QueryRow(ctx, query, auctionID, subscriberID, amount).Scan(
		&bid.ID,
		&bid.AuctionID,
		&bid.SubscriberID,
		&bid.Amount,
		&bid.PlacedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			switch pgErr.ConstraintName {
			case "bids_auction_id_fkey":
				return nil, service.ErrAuctionNotFound
			case "bids_subscriber_id_fkey":
				return nil, service.ErrSubscriberNotFound
			}
		}
		return nil, fmt.Errorf("failed to record bid on auction %d: %w", auctionID, err)
	}

	return &bid, nil
}

// ListForAuction returns bids for an auction joined with the bidder's
// current display name, most recent first. The id tiebreak keeps the order
// deterministic for bids placed in the same instant.
func (r *BidRepository) ListForAuction(ctx context.Context, auctionID int64) ([]*models.AuctionParticipant, error) {
	query := `
		SELECT b.subscriber_id, s.display_name, b.amount, b.placed_at
		FROM bids b
		JOIN subscribers s ON s.telegram_id = b.subscriber_id
		WHERE b.auction_id = $1
		ORDER BY b.placed_at DESC, b.id DESC
	`

	rows, err := r.q.Query(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids for auction %d: %w", auctionID, err)
	}
	defer rows.Close()

	var participants []*models.AuctionParticipant
	for rows.Next() {
		var p models.AuctionParticipant
		if err := rows.Scan(&p.SubscriberID, &p.DisplayName, &p.Amount, &p.PlacedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// Report returns every bid whose parent auction was created at or after the
// given time, ordered by auction id then placement time.
func (r *BidRepository) Report(ctx context.Context, since time.Time) ([]*models.ReportRow, error) {
	query := `
		SELECT a.id, a.title, b.subscriber_id, s.display_name, b.amount, b.placed_at
		FROM bids b
		JOIN auctions a ON a.id = b.auction_id
		JOIN subscribers s ON s.telegram_id = b.subscriber_id
		WHERE a.created_at >= $1
		ORDER BY a.id, b.placed_at, b.id
	`

	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to build report since %s: %w", since.Format(time.RFC3339), err)
	}
	defer rows.Close()

	var report []*models.ReportRow
	for rows.Next() {
		var row models.ReportRow
		err := rows.Scan(
			&row.AuctionID,
			&row.Title,
			&row.SubscriberID,
			&row.DisplayName,
			&row.Amount,
			&row.PlacedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		report = append(report, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}

	return report, nil
}
