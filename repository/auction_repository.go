package repository

import (
	"context"
	"fmt"

	"auctioneer/database"
	"auctioneer/models"
	"auctioneer/service"

	"github.com/jackc/pgx/v5"
)

// AuctionRepository implements the service.AuctionRepository interface
type AuctionRepository struct {
	db *database.DB
	q  queryable
}

// NewAuctionRepository creates a new auction repository
func NewAuctionRepository(db *database.DB) *AuctionRepository {
	return &AuctionRepository{db: db, q: db.Pool}
}

// Create creates a new active auction. Identifiers come from a sequence, so
// successive creates yield strictly increasing ids.
func (r *AuctionRepository) Create(ctx context.Context, title string) (*models.Auction, error) {
	query := `
		INSERT INTO auctions (title)
		VALUES ($1)
		RETURNING id, title, status, created_at, ended_at
	`

	var auction models.Auction
	err := r.q.QueryRow(ctx, query, title).Scan(
		&auction.ID,
		&auction.Title,
		&auction.Status,
		&auction.CreatedAt,
		&auction.EndedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}

	return &auction, nil
}

// ListActive returns active auctions, newest first
func (r *AuctionRepository) ListActive(ctx context.Context) ([]*models.Auction, error) {
	query := `
		SELECT id, title, status, created_at, ended_at
		FROM auctions
		WHERE status = 'active'
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active auctions: %w", err)
	}
	defer rows.Close()

	var auctions []*models.Auction
	for rows.Next() {
		var auction models.Auction
		err := rows.Scan(
			&auction.ID,
			&auction.Title,
			&auction.Status,
			&auction.CreatedAt,
			&auction.EndedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auction: %w", err)
		}
		auctions = append(auctions, &auction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate auctions: %w", err)
	}

	return auctions, nil
}

// GetByID retrieves an auction by its identifier
func (r *AuctionRepository) GetByID(ctx context.Context, id int64) (*models.Auction, error) {
	query := `
		SELECT id, title, status, created_at, ended_at
		FROM auctions
		WHERE id = $1
	`

	var auction models.Auction
	err := r.q.QueryRow(ctx, query, id).Scan(
		&auction.ID,
		&auction.Title,
		&auction.Status,
		&auction.CreatedAt,
		&auction.EndedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, service.ErrAuctionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auction %d: %w", id, err)
	}

	return &auction, nil
}

// End transitions an active auction to ended and stamps ended_at. The status
// guard lives in the WHERE clause, so a concurrent or repeated end never
// overwrites the original end timestamp. The update and the classifying read
// run in one transaction so the reported error reflects a single consistent
// state.
func (r *AuctionRepository) End(ctx context.Context, id int64) (*models.Auction, error) {
	query := `
		UPDATE auctions
		SET status = 'ended', ended_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING id, title, status, created_at, ended_at
	`

	var auction models.Auction
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query, id).Scan(
			&auction.ID,
			&auction.Title,
			&auction.Status,
			&auction.CreatedAt,
			&auction.EndedAt,
		)
		if err == pgx.ErrNoRows {
			// Distinguish a missing auction from an already-ended one
			var status models.AuctionStatus
			err := tx.QueryRow(ctx, `SELECT status FROM auctions WHERE id = $1`, id).Scan(&status)
			if err == pgx.ErrNoRows {
				return service.ErrAuctionNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to check auction %d: %w", id, err)
			}
			return service.ErrAuctionNotActive
		}
		if err != nil {
			return fmt.Errorf("failed to end auction %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &auction, nil
}
