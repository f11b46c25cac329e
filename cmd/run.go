package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"auctioneer/bot"
	"auctioneer/config"
	"auctioneer/database"
	"auctioneer/events"
	"auctioneer/repository"
	"auctioneer/service"
	"auctioneer/session"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting auctioneer bot...")

	// Load configuration
	cfg := config.Get()
	configureLogging(cfg)

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize repositories and session state
	subscriberRepo := repository.NewSubscriberRepository(db)
	auctionRepo := repository.NewAuctionRepository(db)
	bidRepo := repository.NewBidRepository(db)
	sessions := session.NewTracker()

	// Initialize Telegram client
	log.Info("Connecting to Telegram...")
	api, err := bot.NewAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram client: %w", err)
	}

	// Initialize the coordinator with the outbound notifier
	auctionService := service.NewAuctionService(
		cfg,
		subscriberRepo,
		auctionRepo,
		bidRepo,
		sessions,
		bot.NewNotifier(api),
		eventBus,
	)

	// Start the inbound update loop
	telegramBot := bot.New(api, auctionService)
	log.Infof("Bot is running in %s mode...", cfg.Environment)

	runErr := telegramBot.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Errorf("Update loop stopped: %v", runErr)
	}

	// Cleanup resources
	log.Info("Shutting down bot...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}

func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
