package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/artur/tunegrab/internal/bot"
	"github.com/artur/tunegrab/internal/database/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const maxLibraryLines = 20

// Songs is the read side of the song library.
type Songs interface {
	List(ctx context.Context) ([]models.Song, error)
	Search(ctx context.Context, q string) ([]models.Song, error)
}

type LibraryHandler struct {
	songs Songs
	log   zerolog.Logger
}

func NewLibraryHandler(songs Songs, logger zerolog.Logger) *LibraryHandler {
	return &LibraryHandler{songs: songs, log: logger}
}

func (h *LibraryHandler) Name() string { return "library" }

func (h *LibraryHandler) CanHandle(update tgbotapi.Update) bool {
	return update.Message != nil && update.Message.IsCommand() && update.Message.Command() == "library"
}

func (h *LibraryHandler) Handle(ctx context.Context, sender bot.Sender, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	query := strings.TrimSpace(update.Message.CommandArguments())

	var songs []models.Song
	var err error
	if query == "" {
		songs, err = h.songs.List(ctx)
	} else {
		songs, err = h.songs.Search(ctx, query)
	}
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("Failed to load library")
		sender.Send(tgbotapi.NewMessage(chatID, "❌ Не удалось загрузить библиотеку"))
		return
	}

	if _, err := sender.Send(tgbotapi.NewMessage(chatID, formatLibrary(songs))); err != nil {
		h.log.Error().Err(err).Msg("Failed to send library")
	}
}

func formatLibrary(songs []models.Song) string {
	if len(songs) == 0 {
		return "📭 Библиотека пуста"
	}

	var b strings.Builder
	b.WriteString("🎵 Библиотека:\n")
	for i, s := range songs {
		if i == maxLibraryLines {
			fmt.Fprintf(&b, "… и ещё %d", len(songs)-maxLibraryLines)
			break
		}
		fmt.Fprintf(&b, "%d. %s", i+1, s.Title)
		if s.Artist != "" {
			fmt.Fprintf(&b, " — %s", s.Artist)
		}
		fmt.Fprintf(&b, " (%s)\n", FormatDuration(s.DurationSeconds))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatDuration renders seconds as m:ss or h:mm:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
