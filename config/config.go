package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Telegram configuration
	BotToken string

	// Database configuration
	DatabaseURL string

	// Administrator allow-list: Telegram IDs permitted to run admin commands
	AdminIDs []int64

	// Broadcast configuration
	BroadcastWorkers int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, reading a .env file first
// if one is present
func load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	config := &Config{
		BotToken:         os.Getenv("BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		BroadcastWorkers: 8,
		LogLevel:         os.Getenv("LOG_LEVEL"),
		Environment:      os.Getenv("ENVIRONMENT"),
	}

	if workers := os.Getenv("BROADCAST_WORKERS"); workers != "" {
		if parsed, err := strconv.Atoi(workers); err == nil && parsed > 0 {
			config.BroadcastWorkers = parsed
		}
	}

	// Parse admin Telegram IDs
	if adminIDs := os.Getenv("ADMIN_IDS"); adminIDs != "" {
		idStrings := strings.Split(adminIDs, ",")
		for _, idStr := range idStrings {
			idStr = strings.TrimSpace(idStr)
			if idStr == "" {
				continue
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid admin ID %q in ADMIN_IDS", idStr)
			}
			config.AdminIDs = append(config.AdminIDs, id)
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.BotToken == "" {
			return nil, fmt.Errorf("BOT_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if len(config.AdminIDs) == 0 {
			return nil, fmt.Errorf("ADMIN_IDS is required")
		}
	}

	return config, nil
}

// IsAdmin reports whether the given Telegram ID is on the administrator
// allow-list. Every admin-only operation goes through this check.
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
