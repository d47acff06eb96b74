package handler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/artur/tunegrab/internal/database/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSongs struct {
	songs     []models.Song
	err       error
	lastQuery string
}

func (s *stubSongs) List(ctx context.Context) ([]models.Song, error) {
	return s.songs, s.err
}

func (s *stubSongs) Search(ctx context.Context, q string) ([]models.Song, error) {
	s.lastQuery = q
	return s.songs, s.err
}

func TestLibraryHandler_CanHandle(t *testing.T) {
	handler := NewLibraryHandler(&stubSongs{}, zerolog.Nop())

	assert.True(t, handler.CanHandle(tgbotapi.Update{Message: commandMessage("/library", 1)}))
	assert.True(t, handler.CanHandle(tgbotapi.Update{Message: commandMessage("/library adele", 1)}))
	assert.False(t, handler.CanHandle(tgbotapi.Update{Message: commandMessage("/start", 1)}))
	assert.False(t, handler.CanHandle(tgbotapi.Update{}))
}

func TestLibraryHandler_List(t *testing.T) {
	songs := &stubSongs{songs: []models.Song{
		{Title: "Hello", Artist: "Adele", DurationSeconds: 295},
		{Title: "Untitled", DurationSeconds: 61},
	}}
	handler := NewLibraryHandler(songs, zerolog.Nop())
	sender := &fakeSender{}

	handler.Handle(context.Background(), sender, tgbotapi.Update{Message: commandMessage("/library", 5)})

	sent := sender.Sent()
	require.Len(t, sent, 1)
	msg := sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, "🎵 Библиотека:\n1. Hello — Adele (4:55)\n2. Untitled (1:01)", msg.Text)
	assert.Empty(t, songs.lastQuery)
}

func TestLibraryHandler_Search(t *testing.T) {
	songs := &stubSongs{}
	handler := NewLibraryHandler(songs, zerolog.Nop())
	sender := &fakeSender{}

	handler.Handle(context.Background(), sender, tgbotapi.Update{Message: commandMessage("/library adele", 5)})

	assert.Equal(t, "adele", songs.lastQuery)
	msg := sender.Sent()[0].(tgbotapi.MessageConfig)
	assert.Equal(t, "📭 Библиотека пуста", msg.Text)
}

func TestLibraryHandler_Error(t *testing.T) {
	handler := NewLibraryHandler(&stubSongs{err: errors.New("disk I/O error")}, zerolog.Nop())
	sender := &fakeSender{}

	handler.Handle(context.Background(), sender, tgbotapi.Update{Message: commandMessage("/library", 5)})

	msg := sender.Sent()[0].(tgbotapi.MessageConfig)
	assert.True(t, strings.HasPrefix(msg.Text, "❌"))
}

func TestFormatLibrary_Truncates(t *testing.T) {
	songs := make([]models.Song, maxLibraryLines+5)
	for i := range songs {
		songs[i] = models.Song{Title: "t"}
	}

	text := formatLibrary(songs)

	assert.Contains(t, text, "… и ещё 5")
	assert.Equal(t, maxLibraryLines+2, len(strings.Split(text, "\n")))
}
