package cli

import (
	"fmt"
	"os"

	"github.com/artur/tunegrab/internal/config"
	"github.com/artur/tunegrab/internal/database"
	"github.com/artur/tunegrab/internal/database/repository"
	"github.com/artur/tunegrab/internal/downloader"
	"github.com/artur/tunegrab/internal/logging"
	"github.com/spf13/cobra"
)

var Version = "dev"

type rootOptions struct {
	configFile string
	debug      bool
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "tunegrab",
		Short:        "Download the audio track of YouTube videos",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if opts.debug {
				level = "debug"
			}
			logging.Init(level, cfg.Log.Format)
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to config file (default: $XDG_CONFIG_HOME/tunegrab/tunegrab.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newGetCmd(opts),
		newBotCmd(opts),
		newLibraryCmd(opts),
	)
	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

func (o *rootOptions) openLibrary() (*database.DB, *repository.SongRepository, error) {
	db, err := database.New(o.cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, repository.NewSongRepository(db.DB), nil
}

// newService builds the download service. rec may be nil.
func (o *rootOptions) newService(source downloader.VideoSource, rec downloader.Recorder) *downloader.Service {
	opts := []downloader.Option{
		downloader.WithSubdir(o.cfg.Storage.Subdir),
		downloader.WithURLValidator(downloader.IsYouTubeURL),
		downloader.WithLogger(logging.Component("downloader")),
	}
	if rec != nil {
		opts = append(opts, downloader.WithRecorder(rec))
	}
	return downloader.NewService(source, downloader.Dir(o.cfg.Storage.Dir), opts...)
}
