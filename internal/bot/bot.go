package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the subset of *tgbotapi.BotAPI that handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler interface {
	CanHandle(update tgbotapi.Update) bool
	Handle(ctx context.Context, sender Sender, update tgbotapi.Update)
}

// Observer sees every message and callback before it is dispatched.
type Observer interface {
	Observe(ctx context.Context, update tgbotapi.Update)
}

type Bot struct {
	api       *tgbotapi.BotAPI
	sender    Sender
	handlers  []Handler
	observers []Observer
	log       zerolog.Logger
	wg        sync.WaitGroup
}

func New(token string, logger zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("account", api.Self.UserName).Msg("Authorized")

	return &Bot{
		api:      api,
		sender:   api,
		handlers: make([]Handler, 0),
		log:      logger,
	}, nil
}

func (b *Bot) RegisterHandler(h Handler) {
	b.handlers = append(b.handlers, h)
	b.log.Debug().Str("handler", handlerName(h)).Msg("Registered handler")
}

func (b *Bot) AddObserver(o Observer) {
	b.observers = append(b.observers, o)
}

// Run polls for updates until ctx is cancelled, then waits for running handlers.
func (b *Bot) Run(ctx context.Context) {
	b.log.Info().Int("handlers", len(b.handlers)).Msg("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.log.Info().Msg("Stopping bot")
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

// dispatch runs the first matching handler in its own goroutine.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) bool {
	if update.Message != nil && update.Message.From != nil {
		b.log.Debug().
			Str("from", update.Message.From.UserName).
			Str("text", update.Message.Text).
			Msg("Message received")
	}
	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		b.log.Debug().
			Str("from", update.CallbackQuery.From.UserName).
			Str("data", update.CallbackQuery.Data).
			Msg("Callback received")
	}

	if update.Message == nil && update.CallbackQuery == nil {
		b.log.Debug().Msg("Skipping update: no message or callback")
		return false
	}

	for _, o := range b.observers {
		o.Observe(ctx, update)
	}

	for _, handler := range b.handlers {
		if handler.CanHandle(update) {
			b.log.Debug().Str("handler", handlerName(handler)).Msg("Handling update")
			b.wg.Add(1)
			go func(h Handler) {
				defer b.wg.Done()
				h.Handle(ctx, b.sender, update)
			}(handler)
			return true
		}
	}

	b.log.Debug().Msg("No handler found for update")
	return false
}

func handlerName(h Handler) string {
	if n, ok := h.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "anonymous"
}
