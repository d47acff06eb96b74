package handler

import (
	"context"

	"github.com/artur/tunegrab/internal/bot"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type StartHandler struct {
	log zerolog.Logger
}

func NewStartHandler(logger zerolog.Logger) *StartHandler {
	return &StartHandler{log: logger}
}

func (h *StartHandler) Name() string { return "start" }

func (h *StartHandler) CanHandle(update tgbotapi.Update) bool {
	return update.Message != nil && update.Message.IsCommand() && update.Message.Command() == "start"
}

func (h *StartHandler) Handle(ctx context.Context, sender bot.Sender, update tgbotapi.Update) {
	var userName string
	if from := update.Message.From; from != nil {
		userName = getUserName(from.FirstName, from.UserName)
	}

	h.log.Info().Str("user", userName).Msg("Greeting user")

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, formatGreeting(userName))
	if _, err := sender.Send(msg); err != nil {
		h.log.Error().Err(err).Msg("Failed to send message")
	}
}

func getUserName(firstName, userName string) string {
	if firstName != "" {
		return firstName
	}
	return userName
}

func formatGreeting(userName string) string {
	return "Привет, " + userName + "! Рад тебя видеть! 👋\n\n" +
		"Пришли ссылку на YouTube, и я скачаю аудио. " +
		"После ссылки можно указать название файла.\n" +
		"/library — список скачанных песен\n" +
		"/stats — статистика"
}
