package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/artur/tunegrab/internal/bot"
	"github.com/artur/tunegrab/internal/database/models"
	"github.com/artur/tunegrab/internal/downloader"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const (
	actionDownload = "download"
	topActions     = 5
)

type Users interface {
	Upsert(ctx context.Context, tgUser *tgbotapi.User) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type Activity interface {
	Record(ctx context.Context, userID int64, action string) error
	Total(ctx context.Context) (int64, error)
	Top(ctx context.Context, limit int) ([]models.ActionCount, error)
}

// ActivityTracker remembers who talks to the bot and what they ask for.
type ActivityTracker struct {
	users    Users
	activity Activity
	log      zerolog.Logger
}

func NewActivityTracker(users Users, activity Activity, logger zerolog.Logger) *ActivityTracker {
	return &ActivityTracker{users: users, activity: activity, log: logger}
}

func (t *ActivityTracker) Observe(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	action := actionOf(msg)
	if action == "" {
		return
	}

	user, err := t.users.Upsert(ctx, msg.From)
	if err != nil {
		t.log.Warn().Err(err).Int64("user", msg.From.ID).Msg("Failed to save user")
		return
	}
	if err := t.activity.Record(ctx, user.ID, action); err != nil {
		t.log.Warn().Err(err).Str("action", action).Msg("Failed to record activity")
	}
}

// actionOf names a message by the command it runs, "download" for video
// links, or "" for anything else.
func actionOf(msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		return msg.Command()
	}
	if downloader.ExtractVideoID(msg.Text) != "" {
		return actionDownload
	}
	return ""
}

// SongCounter reports the library size.
type SongCounter interface {
	Count(ctx context.Context) (int64, error)
}

type StatsHandler struct {
	users    Users
	activity Activity
	songs    SongCounter
	log      zerolog.Logger
}

func NewStatsHandler(users Users, activity Activity, songs SongCounter, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{users: users, activity: activity, songs: songs, log: logger}
}

func (h *StatsHandler) Name() string { return "stats" }

func (h *StatsHandler) CanHandle(update tgbotapi.Update) bool {
	return update.Message != nil && update.Message.IsCommand() && update.Message.Command() == "stats"
}

func (h *StatsHandler) Handle(ctx context.Context, sender bot.Sender, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID

	text, err := h.collect(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to collect stats")
		sender.Send(tgbotapi.NewMessage(chatID, "❌ Не удалось получить статистику"))
		return
	}

	if _, err := sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.log.Error().Err(err).Msg("Failed to send stats")
	}
}

func (h *StatsHandler) collect(ctx context.Context) (string, error) {
	users, err := h.users.Count(ctx)
	if err != nil {
		return "", err
	}
	songs, err := h.songs.Count(ctx)
	if err != nil {
		return "", err
	}
	total, err := h.activity.Total(ctx)
	if err != nil {
		return "", err
	}
	top, err := h.activity.Top(ctx, topActions)
	if err != nil {
		return "", err
	}
	return formatStats(users, songs, total, top), nil
}

func formatStats(users, songs, total int64, top []models.ActionCount) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Статистика\n\nПользователей: %d\nПесен в библиотеке: %d\nЗапросов: %d", users, songs, total)
	if len(top) > 0 {
		b.WriteString("\n\nПопулярное:")
		for _, a := range top {
			fmt.Fprintf(&b, "\n• %s: %d", a.Action, a.Count)
		}
	}
	return b.String()
}
