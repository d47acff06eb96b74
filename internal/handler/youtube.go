package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/artur/tunegrab/internal/bot"
	"github.com/artur/tunegrab/internal/downloader"
	"github.com/artur/tunegrab/internal/logging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Downloads starts audio downloads that can be polled while they run.
type Downloads interface {
	Start(ctx context.Context, ref downloader.VideoReference) *downloader.Job
}

type YouTubeHandler struct {
	downloads    Downloads
	pollInterval time.Duration
	log          zerolog.Logger
}

func NewYouTubeHandler(downloads Downloads, pollInterval time.Duration, logger zerolog.Logger) *YouTubeHandler {
	return &YouTubeHandler{
		downloads:    downloads,
		pollInterval: pollInterval,
		log:          logger,
	}
}

func (h *YouTubeHandler) Name() string { return "youtube" }

func (h *YouTubeHandler) CanHandle(update tgbotapi.Update) bool {
	if update.Message == nil || update.Message.IsCommand() {
		return false
	}
	return downloader.ExtractVideoID(update.Message.Text) != ""
}

func (h *YouTubeHandler) Handle(ctx context.Context, sender bot.Sender, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	ref := parseRequest(update.Message.Text)
	logger := h.log.With().Int64("chat", chatID).Str("url", ref.URL).Logger()

	// Показываем действие "отправляет аудио"
	sender.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadDocument))

	status, err := sender.Send(tgbotapi.NewMessage(chatID, formatProgress(0)))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to send status message")
		return
	}

	job := h.downloads.Start(logging.WithContext(ctx, logger), ref)
	h.watch(sender, chatID, status.MessageID, job)

	res := job.Result()
	if !res.Succeeded() {
		sender.Send(tgbotapi.NewEditMessageText(chatID, status.MessageID, formatFailure(res)))
		return
	}

	sender.Send(tgbotapi.NewEditMessageText(chatID, status.MessageID, formatProgress(100)))

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(res.Path))
	audio.Title = res.Title
	audio.Performer = res.Author
	audio.Duration = int(res.Duration / time.Second)
	if _, err := sender.Send(audio); err != nil {
		logger.Error().Err(err).Msg("Failed to send audio")
		sender.Send(tgbotapi.NewEditMessageText(chatID, status.MessageID, "❌ Не удалось отправить аудио: "+err.Error()))
		return
	}

	// Удаляем сообщение со статусом
	sender.Request(tgbotapi.NewDeleteMessage(chatID, status.MessageID))
}

// watch edits the status message whenever the job progress changes, until the
// job is done.
func (h *YouTubeHandler) watch(sender bot.Sender, chatID int64, messageID int, job *downloader.Job) {
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	last := 0
	for {
		select {
		case <-job.Done():
			return
		case <-ticker.C:
			p := job.Progress()
			if p == last {
				continue
			}
			last = p
			if _, err := sender.Send(tgbotapi.NewEditMessageText(chatID, messageID, formatProgress(p))); err != nil {
				h.log.Debug().Err(err).Msg("Failed to update progress")
			}
		}
	}
}

// parseRequest takes the first YouTube link as the URL and the rest of the
// message as the display name. Text glued to the link is dropped.
func parseRequest(text string) downloader.VideoReference {
	var ref downloader.VideoReference
	var rest []string
	for _, field := range strings.Fields(text) {
		if ref.URL == "" {
			if url := downloader.ExtractVideoURL(field); url != "" {
				ref.URL = url
				continue
			}
		}
		rest = append(rest, field)
	}
	ref.DisplayName = strings.Join(rest, " ")
	return ref
}

func formatProgress(p int) string {
	const width = 10
	filled := p * width / 100
	return fmt.Sprintf("⏳ Скачиваю аудио... %s %d%%",
		strings.Repeat("▓", filled)+strings.Repeat("░", width-filled), p)
}

func formatFailure(res downloader.Result) string {
	switch res.Kind {
	case downloader.KindResolution:
		return "❌ Не удалось найти аудио для этой ссылки"
	default:
		return "❌ Ошибка при скачивании аудио"
	}
}
