package models

import (
	"time"
)

// Subscriber represents a Telegram user who opted in to auction broadcasts
type Subscriber struct {
	TelegramID  int64     `db:"telegram_id"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
}
