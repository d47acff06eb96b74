package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/artur/tunegrab/internal/database/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrUserNotFound is returned when no user has the given Telegram ID
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles bot user persistence
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert creates or refreshes a user from a Telegram user object
func (r *UserRepository) Upsert(ctx context.Context, tgUser *tgbotapi.User) (*models.User, error) {
	if tgUser == nil {
		return nil, errors.New("telegram user is nil")
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO users (telegram_user_id, username, first_name, last_name, language_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(telegram_user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			language_code = excluded.language_code,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		tgUser.ID,
		tgUser.UserName,
		tgUser.FirstName,
		tgUser.LastName,
		tgUser.LanguageCode,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return r.GetByTelegramID(ctx, tgUser.ID)
}

// GetByTelegramID retrieves a user by Telegram user ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramUserID int64) (*models.User, error) {
	query := `
		SELECT id, telegram_user_id, username, first_name, last_name, language_code, created_at, updated_at
		FROM users
		WHERE telegram_user_id = ?
	`

	user := &models.User{}
	var username, firstName, lastName, languageCode sql.NullString

	err := r.db.QueryRowContext(ctx, query, telegramUserID).Scan(
		&user.ID,
		&user.TelegramUserID,
		&username,
		&firstName,
		&lastName,
		&languageCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Username = username.String
	user.FirstName = firstName.String
	user.LastName = lastName.String
	user.LanguageCode = languageCode.String

	return user, nil
}

// Count returns the number of known users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
