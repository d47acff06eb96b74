package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artur/tunegrab/internal/downloader"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const pollInterval = 200 * time.Millisecond

func newGetCmd(opts *rootOptions) *cobra.Command {
	var name string
	var noLibrary bool

	cmd := &cobra.Command{
		Use:   "get URL [--name NAME]",
		Short: "Download the audio track of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var rec downloader.Recorder
			if !noLibrary {
				db, songs, err := opts.openLibrary()
				if err != nil {
					return err
				}
				defer db.Close()
				rec = songs
			}

			svc := opts.newService(downloader.NewYouTubeSource(nil), rec)
			ref := downloader.VideoReference{URL: args[0], DisplayName: name}
			log.Debug().Str("op", "cli/get").Str("url", ref.URL).Msg("Starting download")

			return runGet(ctx, cmd.OutOrStdout(), svc, ref, opts.cfg.PayloadFormat(), pollInterval)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name used for the file name")
	cmd.Flags().BoolVar(&noLibrary, "no-library", false, "Do not record the song in the library")
	return cmd
}

// runGet downloads ref while polling the service for progress, the same way a
// UI would, and prints the final result. Cancelling ctx stops the poller and
// fails the transfer.
func runGet(ctx context.Context, w io.Writer, svc *downloader.Service, ref downloader.VideoReference, format downloader.PayloadFormat, interval time.Duration) error {
	done := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		svc.DownloadAudio(gctx, ref)
		return nil
	})
	g.Go(func() error {
		return pollProgress(gctx, w, svc, done, interval)
	})
	waitErr := g.Wait()

	res := svc.Result()
	line := renderResult(res, format)
	if res.Succeeded() {
		if fi, err := os.Stat(res.Path); err == nil {
			line += dimStyle.Render(downloader.FormatSize(fi.Size()))
		}
	}
	fmt.Fprintln(w, line)
	if res.Failed() {
		return fmt.Errorf("download failed (%s): %w", res.Kind, res.Err)
	}
	return waitErr
}

func pollProgress(ctx context.Context, w io.Writer, svc *downloader.Service, done <-chan struct{}, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := -1
	show := func() {
		if p := svc.Progress(); p != last {
			last = p
			fmt.Fprintf(w, "\r%s", renderProgress(p))
		}
	}

	for {
		select {
		case <-done:
			show()
			fmt.Fprintln(w)
			return nil
		case <-ctx.Done():
			fmt.Fprintln(w)
			return ctx.Err()
		case <-ticker.C:
			show()
		}
	}
}
