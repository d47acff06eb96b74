package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/artur/tunegrab/internal/database/models"
	"github.com/artur/tunegrab/internal/downloader"
)

// ErrSongNotFound is returned when no song matches the given ID
var ErrSongNotFound = errors.New("song not found")

// SongRepository handles song library persistence
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Add stores a song and returns its ID
func (r *SongRepository) Add(ctx context.Context, song *models.Song) (int64, error) {
	if song == nil {
		return 0, fmt.Errorf("song is nil")
	}
	if song.CreatedAt.IsZero() {
		song.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO songs (video_id, title, artist, duration_seconds, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		song.VideoID,
		song.Title,
		song.Artist,
		song.DurationSeconds,
		song.Path,
		song.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add song: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get song id: %w", err)
	}
	song.ID = id
	return id, nil
}

// RecordSong stores a successful download in the library
func (r *SongRepository) RecordSong(ctx context.Context, videoID string, result downloader.Result) error {
	if !result.Succeeded() {
		return fmt.Errorf("refusing to record unsuccessful download")
	}
	_, err := r.Add(ctx, &models.Song{
		VideoID:         videoID,
		Title:           result.Title,
		Artist:          result.Author,
		DurationSeconds: int(result.Duration / time.Second),
		Path:            result.Path,
	})
	return err
}

// Get retrieves a song by ID
func (r *SongRepository) Get(ctx context.Context, id int64) (*models.Song, error) {
	query := `
		SELECT id, video_id, title, artist, duration_seconds, path, created_at
		FROM songs
		WHERE id = ?
	`

	song, err := scanSong(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return song, nil
}

// List returns all songs, newest first
func (r *SongRepository) List(ctx context.Context) ([]models.Song, error) {
	query := `
		SELECT id, video_id, title, artist, duration_seconds, path, created_at
		FROM songs
		ORDER BY created_at DESC, id DESC
	`
	return r.query(ctx, query)
}

// Search returns songs whose title or artist equals q, ignoring case
func (r *SongRepository) Search(ctx context.Context, q string) ([]models.Song, error) {
	query := `
		SELECT DISTINCT id, video_id, title, artist, duration_seconds, path, created_at
		FROM songs
		WHERE title = ? COLLATE NOCASE OR artist = ? COLLATE NOCASE
		ORDER BY created_at DESC, id DESC
	`
	return r.query(ctx, query, q, q)
}

// Delete removes a song from the library. The audio file is left on disk.
func (r *SongRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	if n == 0 {
		return ErrSongNotFound
	}
	return nil
}

// Count returns the number of songs in the library
func (r *SongRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count)
	return count, err
}

func (r *SongRepository) query(ctx context.Context, query string, args ...any) ([]models.Song, error) {
	return querySongs(ctx, r.db, query, args...)
}

func querySongs(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.Song, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, *song)
	}

	return songs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(s scanner) (*models.Song, error) {
	song := &models.Song{}
	var videoID sql.NullString

	err := s.Scan(
		&song.ID,
		&videoID,
		&song.Title,
		&song.Artist,
		&song.DurationSeconds,
		&song.Path,
		&song.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	song.VideoID = videoID.String
	return song, nil
}
