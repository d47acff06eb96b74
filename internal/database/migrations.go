package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Migrate runs all database migrations
func (db *DB) Migrate() error {
	logger := log.With().Str("component", "db").Logger()
	logger.Debug().Msg("Running migrations...")

	migrations := []string{
		// Songs catalogue
		`CREATE TABLE IF NOT EXISTS songs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			video_id TEXT,
			title TEXT NOT NULL,
			artist TEXT NOT NULL DEFAULT '',
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			path TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_title ON songs(title)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_artist ON songs(artist)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_video_id ON songs(video_id)`,

		// Albums group catalogued songs
		`CREATE TABLE IF NOT EXISTS albums (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS song_albums (
			song_id INTEGER NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
			album_id INTEGER NOT NULL REFERENCES albums(id) ON DELETE CASCADE,
			added_at DATETIME NOT NULL,
			PRIMARY KEY (song_id, album_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_song_albums_album ON song_albums(album_id)`,

		// Bot audience
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_user_id INTEGER NOT NULL UNIQUE,
			username TEXT,
			first_name TEXT,
			last_name TEXT,
			language_code TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS activity (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			action TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_user ON activity(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_action ON activity(action)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	logger.Info().Int("count", len(migrations)).Msg("Migrations completed successfully")
	return nil
}
