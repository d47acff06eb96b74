package models

import "time"

// Album is a named group of songs from the library
type Album struct {
	ID        int64
	Name      string
	SongCount int64
	CreatedAt time.Time
}
