package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/artur/tunegrab/internal/bot"
	"github.com/artur/tunegrab/internal/database/repository"
	"github.com/artur/tunegrab/internal/downloader"
	"github.com/artur/tunegrab/internal/handler"
	"github.com/artur/tunegrab/internal/logging"
	"github.com/spf13/cobra"
)

func newBotCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cfg.Telegram.Token == "" {
				return errors.New("telegram token is not set (TUNEGRAB_TELEGRAM_TOKEN or TELEGRAM_BOT_TOKEN)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, songs, err := opts.openLibrary()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := opts.newService(downloader.NewYouTubeSource(nil), songs)

			b, err := bot.New(cfg.Telegram.Token, logging.Component("bot"))
			if err != nil {
				return err
			}

			users := repository.NewUserRepository(db.DB)
			activity := repository.NewStatsRepository(db.DB)
			b.AddObserver(handler.NewActivityTracker(users, activity, logging.Component("activity")))

			b.RegisterHandler(handler.NewStartHandler(logging.Component("start")))
			b.RegisterHandler(handler.NewLibraryHandler(songs, logging.Component("library")))
			b.RegisterHandler(handler.NewStatsHandler(users, activity, songs, logging.Component("stats")))
			b.RegisterHandler(handler.NewYouTubeHandler(svc, cfg.Bot.PollInterval, logging.Component("youtube")))

			b.Run(ctx)
			return nil
		},
	}
}
