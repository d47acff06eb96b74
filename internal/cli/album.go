package cli

import (
	"fmt"
	"strconv"

	"github.com/artur/tunegrab/internal/database/repository"
	"github.com/spf13/cobra"
)

func newAlbumCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "album",
		Short: "Group songs into albums",
	}
	cmd.AddCommand(
		newAlbumListCmd(opts),
		newAlbumCreateCmd(opts),
		newAlbumRenameCmd(opts),
		newAlbumRemoveCmd(opts),
		newAlbumAddCmd(opts),
		newAlbumDropCmd(opts),
		newAlbumShowCmd(opts),
	)
	return cmd
}

// withAlbums opens the library and hands an album repository to fn
func (o *rootOptions) withAlbums(fn func(albums *repository.AlbumRepository) error) error {
	db, _, err := o.openLibrary()
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(repository.NewAlbumRepository(db.DB))
}

func parseSongIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid song id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newAlbumListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List albums",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAlbums(func(albums *repository.AlbumRepository) error {
				list, err := albums.List(cmd.Context())
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(w, dimStyle.Render("No albums"))
					return nil
				}
				for _, a := range list {
					fmt.Fprintf(w, "%4d  %s  %s\n", a.ID, a.Name, dimStyle.Render(fmt.Sprintf("%d songs", a.SongCount)))
				}
				return nil
			})
		},
	}
}

func newAlbumCreateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAlbums(func(albums *repository.AlbumRepository) error {
				album, err := albums.Insert(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Created"), album.Name)
				return nil
			})
		},
	}
}

func newAlbumRenameCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename NAME NEW_NAME",
		Short: "Rename an album",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAlbums(func(albums *repository.AlbumRepository) error {
				album, err := albums.GetByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := albums.Rename(cmd.Context(), album.ID, args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Renamed"), album.Name, "→", args[1])
				return nil
			})
		},
	}
}

func newAlbumRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME",
		Short: "Delete an album, keeping its songs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAlbums(func(albums *repository.AlbumRepository) error {
				album, err := albums.GetByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := albums.Delete(cmd.Context(), album.ID); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Removed"), album.Name)
				return nil
			})
		},
	}
}

func newAlbumAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME SONG_ID...",
		Short: "Add songs to an album",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseSongIDs(args[1:])
			if err != nil {
				return err
			}

			return opts.withAlbums(func(albums *repository.AlbumRepository) error {
				album, err := albums.GetByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, id := range ids {
					if err := albums.AddSong(cmd.Context(), album.ID, id); err != nil {
						return fmt.Errorf("song %d: %w", id, err)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Added"), len(ids), "to", album.Name)
				return nil
			})
		},
	}
}

func newAlbumDropCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drop NAME SONG_ID",
		Short: "Take a song out of an album",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseSongIDs(args[1:])
			if err != nil {
				return err
			}

			return opts.withAlbums(func(albums *repository.AlbumRepository) error {
				album, err := albums.GetByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := albums.RemoveSong(cmd.Context(), album.ID, ids[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Dropped"), ids[0], "from", album.Name)
				return nil
			})
		},
	}
}

func newAlbumShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "List the songs of an album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAlbums(func(albums *repository.AlbumRepository) error {
				album, err := albums.GetByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				songs, err := albums.SongsOf(cmd.Context(), album.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(album.Name))
				printSongs(cmd.OutOrStdout(), songs)
				return nil
			})
		},
	}
}
