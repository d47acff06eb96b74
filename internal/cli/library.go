package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/artur/tunegrab/internal/database/models"
	"github.com/artur/tunegrab/internal/handler"
	"github.com/spf13/cobra"
)

func newLibraryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Short:   "Manage downloaded songs",
		Aliases: []string{"lib"},
	}
	cmd.AddCommand(
		newLibraryListCmd(opts),
		newLibrarySearchCmd(opts),
		newLibraryRemoveCmd(opts),
		newAlbumCmd(opts),
	)
	return cmd
}

func newLibraryListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all songs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, songs, err := opts.openLibrary()
			if err != nil {
				return err
			}
			defer db.Close()

			list, err := songs.List(cmd.Context())
			if err != nil {
				return err
			}
			printSongs(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func newLibrarySearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Find songs by exact title or artist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, songs, err := opts.openLibrary()
			if err != nil {
				return err
			}
			defer db.Close()

			list, err := songs.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSongs(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func newLibraryRemoveCmd(opts *rootOptions) *cobra.Command {
	var deleteFile bool

	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a song from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid song id %q", args[0])
			}

			db, songs, err := opts.openLibrary()
			if err != nil {
				return err
			}
			defer db.Close()

			song, err := songs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := songs.Delete(cmd.Context(), id); err != nil {
				return err
			}
			if deleteFile {
				if err := os.Remove(song.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("failed to delete %s: %w", song.Path, err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Removed"), song.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteFile, "delete-file", false, "Also delete the audio file")
	return cmd
}

func printSongs(w io.Writer, songs []models.Song) {
	if len(songs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No songs"))
		return
	}
	for _, s := range songs {
		artist := s.Artist
		if artist == "" {
			artist = "-"
		}
		fmt.Fprintf(w, "%4d  %s  %s  %s  %s\n",
			s.ID,
			s.Title,
			dimStyle.Render(artist),
			handler.FormatDuration(s.DurationSeconds),
			dimStyle.Render(s.Path),
		)
	}
}
