package models

import "time"

// User is a Telegram user who has talked to the bot
type User struct {
	ID             int64
	TelegramUserID int64
	Username       string
	FirstName      string
	LastName       string
	LanguageCode   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
