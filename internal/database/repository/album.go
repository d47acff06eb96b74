package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artur/tunegrab/internal/database/models"
)

var (
	// ErrAlbumNotFound is returned when no album matches the given ID or name
	ErrAlbumNotFound = errors.New("album not found")
	// ErrAlbumExists is returned when an album with the same name already exists
	ErrAlbumExists = errors.New("album already exists")
)

// AlbumRepository handles albums and their song membership
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new AlbumRepository
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Insert creates an album. Names are unique regardless of case.
func (r *AlbumRepository) Insert(ctx context.Context, name string) (*models.Album, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("album name is empty")
	}

	query := `
		INSERT INTO albums (name, created_at)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query, name, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to insert album: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to insert album: %w", err)
	}
	if n == 0 {
		return nil, ErrAlbumExists
	}

	return r.GetByName(ctx, name)
}

// Rename changes the name of an album
func (r *AlbumRepository) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("album name is empty")
	}

	if other, err := r.GetByName(ctx, name); err == nil && other.ID != id {
		return ErrAlbumExists
	} else if err != nil && !errors.Is(err, ErrAlbumNotFound) {
		return err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE albums SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename album: %w", err)
	}
	return expectOne(res, ErrAlbumNotFound)
}

// Delete removes an album. Its songs stay in the library.
func (r *AlbumRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	return expectOne(res, ErrAlbumNotFound)
}

// List returns all albums with their song counts, ordered by name
func (r *AlbumRepository) List(ctx context.Context) ([]models.Album, error) {
	query := `
		SELECT a.id, a.name, COUNT(sa.song_id), a.created_at
		FROM albums a
		LEFT JOIN song_albums sa ON sa.album_id = a.id
		GROUP BY a.id
		ORDER BY a.name COLLATE NOCASE
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	var albums []models.Album
	for rows.Next() {
		var a models.Album
		if err := rows.Scan(&a.ID, &a.Name, &a.SongCount, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, a)
	}

	return albums, rows.Err()
}

// GetByName retrieves an album by name, ignoring case
func (r *AlbumRepository) GetByName(ctx context.Context, name string) (*models.Album, error) {
	query := `
		SELECT a.id, a.name, (SELECT COUNT(*) FROM song_albums WHERE album_id = a.id), a.created_at
		FROM albums a
		WHERE a.name = ?
	`

	a := &models.Album{}
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(name)).Scan(&a.ID, &a.Name, &a.SongCount, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return a, nil
}

// AddSong puts a song into an album. Adding it twice is a no-op.
func (r *AlbumRepository) AddSong(ctx context.Context, albumID, songID int64) error {
	if err := r.exists(ctx, `SELECT 1 FROM albums WHERE id = ?`, albumID, ErrAlbumNotFound); err != nil {
		return err
	}
	if err := r.exists(ctx, `SELECT 1 FROM songs WHERE id = ?`, songID, ErrSongNotFound); err != nil {
		return err
	}

	query := `
		INSERT INTO song_albums (song_id, album_id, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT(song_id, album_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, songID, albumID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to add song to album: %w", err)
	}
	return nil
}

// RemoveSong takes a song out of an album
func (r *AlbumRepository) RemoveSong(ctx context.Context, albumID, songID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM song_albums WHERE album_id = ? AND song_id = ?`, albumID, songID)
	if err != nil {
		return fmt.Errorf("failed to remove song from album: %w", err)
	}
	return expectOne(res, ErrSongNotFound)
}

// SongsOf returns the songs of an album in the order they were added
func (r *AlbumRepository) SongsOf(ctx context.Context, albumID int64) ([]models.Song, error) {
	query := `
		SELECT s.id, s.video_id, s.title, s.artist, s.duration_seconds, s.path, s.created_at
		FROM songs s
		INNER JOIN song_albums sa ON sa.song_id = s.id
		WHERE sa.album_id = ?
		ORDER BY sa.added_at, sa.rowid
	`
	return querySongs(ctx, r.db, query, albumID)
}

func (r *AlbumRepository) exists(ctx context.Context, query string, id int64, notFound error) error {
	var one int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
